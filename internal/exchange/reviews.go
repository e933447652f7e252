package exchange

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// =========================
// ReviewSession - seeker rates a completed session
// =========================
func ReviewSession(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing session id"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := context.Background()

	session, err := getSession(ctx, db.Conn, sessionID, false)
	if err != nil {
		return writeError(c, err)
	}
	if session.SeekerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the seeker may review a session"})
	}
	if session.Status != SessionCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session not completed yet"})
	}

	err = db.WithTx(ctx, db.Conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO session_reviews (id, session_id, reviewer_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), session.ID, userID, req.Rating, req.Comment); err != nil {
			return err
		}

		// Refresh the skill's aggregate rating from all of its reviews.
		_, err := tx.Exec(ctx, `
			UPDATE skills SET rating = (
				SELECT AVG(sr.rating)::double precision
				FROM session_reviews sr
				JOIN service_sessions ss ON ss.id = sr.session_id
				WHERE ss.skill_id = $1
			)
			WHERE id = $1
		`, session.SkillID)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "session already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store review"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "review recorded"})
}

// =========================
// GetSessionReview - fetch the review left on a session
// =========================
func GetSessionReview(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing session id"})
	}

	session, err := getSession(context.Background(), db.Conn, sessionID, false)
	if err != nil {
		return writeError(c, err)
	}
	if session.SeekerID != userID && session.ProviderID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this session"})
	}

	var rating int
	var comment string
	err = db.Conn.QueryRow(context.Background(), `
		SELECT rating, comment FROM session_reviews WHERE session_id = $1
	`, sessionID).Scan(&rating, &comment)
	if err == pgx.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no review for this session"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch review"})
	}

	return c.JSON(http.StatusOK, echo.Map{"rating": rating, "comment": comment})
}
