package exchange

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
	"skillswap/internal/notify"
	"skillswap/internal/wallet"
)

// =========================
// CreateRequest - member asks to be taught a skill
// =========================
func CreateRequestHandler(c echo.Context) error {
	requesterID, ok := c.Get("user_id").(string)
	if !ok || requesterID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		SkillID string `json:"skill_id"`
		Note    string `json:"note"`
	}
	if err := c.Bind(&req); err != nil || req.SkillID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid skill_id"})
	}

	ctx := context.Background()
	created, err := CreateRequest(ctx, db.Conn, requesterID, req.SkillID, req.Note)
	if err != nil {
		return writeError(c, err)
	}

	// Notify the provider (best-effort)
	_ = notify.Create(ctx, db.Conn, created.ProviderID, "request:new",
		"New skill request", created.Note, created.ID)

	return c.JSON(http.StatusCreated, echo.Map{
		"request_id": created.ID,
		"status":     created.Status,
	})
}

// =========================
// ListRequests - incoming and outgoing requests for the member
// =========================
func ListRequests(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	summaries, err := ListRequestSummaries(context.Background(), db.Conn, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch requests"})
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": summaries})
}

// =========================
// AcceptRequest - provider accepts, session is created
// =========================
func AcceptRequest(c echo.Context) error {
	return decideHandler(c, true)
}

// =========================
// DeclineRequest - provider declines
// =========================
func DeclineRequest(c echo.Context) error {
	return decideHandler(c, false)
}

func decideHandler(c echo.Context, accept bool) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	ctx := context.Background()
	req, session, err := Decide(ctx, db.Conn, requestID, actorID, accept)
	if err != nil {
		return writeError(c, err)
	}

	if accept {
		_ = notify.Create(ctx, db.Conn, req.RequesterID, "request:accepted",
			"Your skill request was accepted", "", req.ID)
		return c.JSON(http.StatusOK, echo.Map{
			"status":     req.Status,
			"session_id": session.ID,
		})
	}

	_ = notify.Create(ctx, db.Conn, req.RequesterID, "request:declined",
		"Your skill request was declined", "", req.ID)
	return c.JSON(http.StatusOK, echo.Map{"status": req.Status})
}

// =========================
// CompleteSession - provider settles a finished session
// =========================
func CompleteSessionHandler(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing session id"})
	}

	ctx := context.Background()
	session, err := CompleteSession(ctx, db.Conn, sessionID, actorID)
	if err != nil {
		return writeError(c, err)
	}

	_ = notify.Create(ctx, db.Conn, session.SeekerID, "session:completed",
		"Your session was completed", "", session.ID)

	return c.JSON(http.StatusOK, echo.Map{"status": session.Status})
}

// writeError maps core errors onto the HTTP taxonomy.
func writeError(c echo.Context, err error) error {
	var insufficient *wallet.InsufficientCreditsError
	switch {
	case errors.Is(err, ErrSkillNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, wallet.ErrWalletNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, ErrSelfRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, ErrRequestClosed), errors.Is(err, ErrAlreadyCompleted):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "insufficient credits",
			"available": insufficient.Available,
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
