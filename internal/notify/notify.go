package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// Notification is a poll-based in-app alert; there is no push delivery.
type Notification struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      string  `json:"body,omitempty"`
	Reference *string `json:"reference,omitempty"`
	CreatedAt string  `json:"created_at"`
	ReadAt    *string `json:"read_at,omitempty"`
}

// Create inserts a notification row for a member. Callers treat failures as
// best-effort; a lost notification never fails the triggering operation.
func Create(ctx context.Context, q db.Queryer, memberID, typ, title, body, reference string) error {
	var ref *string
	if reference != "" {
		ref = &reference
	}
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (id, member_id, type, title, body, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), memberID, typ, title, body, ref)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List returns the member's notifications, newest first.
func List(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, type, title, body, reference, created_at, read_at
		FROM notifications WHERE member_id = $1
		ORDER BY created_at DESC LIMIT 100
	`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch notifications"})
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.Reference, &createdAt, &readAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		n.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if readAt != nil {
			formatted := readAt.UTC().Format(time.RFC3339)
			n.ReadAt = &formatted
		}
		items = append(items, n)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkRead stamps a notification as read. Only the owner may do so.
func MarkRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	notifID := c.Param("id")
	if notifID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing notification id"})
	}

	res, err := db.Conn.Exec(context.Background(), `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND member_id = $2 AND read_at IS NULL
	`, notifID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found or already read"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "marked read"})
}
