package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var members, skills, requests, sessions, circulating int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE role = 'member'`).Scan(&members)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&skills)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM skill_requests`).Scan(&requests)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM service_sessions`).Scan(&sessions)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM wallets`).Scan(&circulating)

	return c.JSON(http.StatusOK, echo.Map{
		"members":             members,
		"skills":              skills,
		"requests":            requests,
		"sessions":            sessions,
		"circulating_credits": circulating,
	})
}
