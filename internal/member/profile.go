package member

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// GetPublicProfile returns the public fields of a member's profile
func GetPublicProfile(c echo.Context) error {
	memberID := c.Param("id")
	if memberID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing member id"})
	}

	var name, location string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT name, location FROM members WHERE id = $1 AND role = 'member'`, memberID).
		Scan(&name, &location)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":       memberID,
		"name":     name,
		"location": location,
	})
}

// UpdateProfile lets the owner edit their display name and location.
// Email is part of the member's identity and cannot change.
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == nil && req.Location == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Name != nil && *req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
	}

	ctx := context.Background()

	if req.Name != nil {
		if _, err := db.Conn.Exec(ctx, `UPDATE members SET name = $1 WHERE id = $2`, *req.Name, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update name"})
		}
	}
	if req.Location != nil {
		if _, err := db.Conn.Exec(ctx, `UPDATE members SET location = $1 WHERE id = $2`, *req.Location, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update location"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}
