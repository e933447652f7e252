package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"skillswap/internal/admin"
	"skillswap/internal/auth"
	"skillswap/internal/chat"
	"skillswap/internal/db"
	"skillswap/internal/exchange"
	"skillswap/internal/member"
	mware "skillswap/internal/middleware"
	"skillswap/internal/notify"
	"skillswap/internal/skill"
	"skillswap/internal/wallet"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, relying on environment")
	}

	// Initialize database connection and schema
	db.Init()

	e := echo.New()
	e.HideBanner = true

	// Basic middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health routes
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "skillswap"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := db.Conn.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)

	e.GET("/user/:id/profile", member.GetPublicProfile)
	e.GET("/skills", skill.SearchSkills) // public discovery

	// Protected routes. Marketplace actions require the member role: admin
	// accounts are never marketplace actors and hold no wallet.
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.POST("/auth/password", auth.ChangePassword)
	api.PATCH("/user/profile", member.UpdateProfile, mware.RequireRoles("member"))

	api.POST("/skills", skill.CreateSkill, mware.RequireRoles("member"))
	api.GET("/skills/me", skill.GetMySkills, mware.RequireRoles("member"))
	api.DELETE("/skills/:id", skill.DeleteSkill, mware.RequireRoles("member"))

	api.GET("/wallet/balance", wallet.Balance, mware.RequireRoles("member"))
	api.GET("/wallet/transactions", wallet.GetUserTransactions, mware.RequireRoles("member"))

	api.POST("/requests", exchange.CreateRequestHandler, mware.RequireRoles("member"))
	api.GET("/requests", exchange.ListRequests, mware.RequireRoles("member"))
	api.POST("/requests/:id/accept", exchange.AcceptRequest, mware.RequireRoles("member"))
	api.POST("/requests/:id/decline", exchange.DeclineRequest, mware.RequireRoles("member"))

	api.POST("/requests/:id/messages", chat.SendMessage, mware.RequireRoles("member"))
	api.GET("/requests/:id/messages", chat.ListMessages, mware.RequireRoles("member"))
	api.GET("/conversations", chat.Conversations, mware.RequireRoles("member"))

	api.POST("/sessions/:id/complete", exchange.CompleteSessionHandler, mware.RequireRoles("member"))
	api.POST("/sessions/:id/review", exchange.ReviewSession, mware.RequireRoles("member"))
	api.GET("/sessions/:id/review", exchange.GetSessionReview, mware.RequireRoles("member"))

	api.GET("/notifications", notify.List, mware.RequireRoles("member"))
	api.POST("/notifications/:id/read", notify.MarkRead, mware.RequireRoles("member"))

	// Admin routes (read-only views)
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware)
	adminGroup.Use(mware.AdminGuard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/wallets", admin.ListWallets)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("server listening on :%s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
