package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/db"
)

type ChangePasswordRequest struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=6"`
}

// ChangePassword lets an authenticated member rotate their password.
func ChangePassword(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(ChangePasswordRequest)
	if err := c.Bind(req); err != nil || req.Current == "" || len(req.New) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current and new password (min 6 chars) are required"})
	}

	ctx := context.Background()

	var stored string
	err := db.Conn.QueryRow(ctx, `SELECT password FROM members WHERE id = $1`, userID).Scan(&stored)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(req.Current)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.New), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	if _, err := db.Conn.Exec(ctx, `UPDATE members SET password = $1 WHERE id = $2`, string(hashed), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
