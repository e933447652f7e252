package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/db"
	"skillswap/internal/wallet"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
// Creates the member together with their wallet. New wallets are seeded with
// the initial credit grant so members can take part in exchanges right away.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	location := req.Location
	if location == "" {
		location = "Not set"
	}

	ctx := context.Background()
	memberID := uuid.New().String()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO members (id, name, email, password, location, role)
		VALUES ($1, $2, $3, $4, $5, 'member')
	`, memberID, req.Name, req.Email, string(hashed), location)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (id, member_id, balance, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), memberID, wallet.InitialGrant, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wallet creation failed"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, member_id, amount, type, created_at)
		VALUES ($1, $2, $3, 'grant', $4)
	`, uuid.New().String(), memberID, wallet.InitialGrant, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grant record failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	log.WithFields(log.Fields{"member_id": memberID}).Info("member signed up")

	signed, err := IssueToken(memberID, "member")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}
