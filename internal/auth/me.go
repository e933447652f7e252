package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
	"skillswap/internal/member"
)

// Me returns the currently authenticated member's profile
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var m member.Member
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, email, location, role, created_at FROM members WHERE id = $1`, userID).
		Scan(&m.ID, &m.Name, &m.Email, &m.Location, &m.Role, &m.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}

	return c.JSON(http.StatusOK, m)
}
