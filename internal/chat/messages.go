package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
	"skillswap/internal/notify"
)

// SendMessage - requester or provider sends a message in a request thread
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message text is required"})
	}

	ctx := context.Background()

	// Only the two parties to a request may read or write its thread.
	counterpartID, err := threadCounterpart(ctx, requestID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		if err == errNotParticipant {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err = db.Conn.QueryRow(ctx, `
		INSERT INTO messages (id, request_id, sender_id, text)
		VALUES ($1, $2, $3, $4) RETURNING created_at
	`, msgID, requestID, userID, body.Text).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	// In-app notification for the counterpart (best-effort)
	_ = notify.Create(ctx, db.Conn, counterpartID, "message:new", "New message", body.Text, requestID)

	return c.JSON(http.StatusOK, echo.Map{
		"message_id": msgID,
		"text":       body.Text,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
}

// ListMessages - get the ordered thread for a request
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	ctx := context.Background()

	if _, err := threadCounterpart(ctx, requestID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		if err == errNotParticipant {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	req, err := loadRequestInfo(ctx, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	msgs, err := loadMessages(ctx, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list messages"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"messages": threadMessages(userID, *req, msgs),
	})
}

var errNotParticipant = errors.New("not a participant")

// threadCounterpart verifies userID is a party to the request and returns the
// other party. Returns pgx.ErrNoRows for a missing request and
// errNotParticipant when the user is neither requester nor provider.
func threadCounterpart(ctx context.Context, requestID, userID string) (string, error) {
	var requesterID, providerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT requester_id, provider_id FROM skill_requests WHERE id = $1`, requestID,
	).Scan(&requesterID, &providerID)
	if err != nil {
		return "", err
	}

	switch userID {
	case requesterID:
		return providerID, nil
	case providerID:
		return requesterID, nil
	default:
		return "", errNotParticipant
	}
}
