package wallet

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// Balance returns the authenticated member's wallet balance along with the
// spendable amount (balance minus credits earmarked by pending sessions).
func Balance(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()

	balance, err := BalanceOf(ctx, db.Conn, userID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch balance"})
	}

	spendable, err := Spendable(ctx, db.Conn, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute spendable credits"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"member_id": userID,
		"balance":   balance,
		"spendable": spendable,
	})
}

// GetUserTransactions lists the authenticated member's ledger entries.
func GetUserTransactions(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, member_id, amount, type, reference, created_at
		FROM credit_transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch transactions"})
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var e Transaction
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Amount, &e.Type, &e.Reference, &e.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		entries = append(entries, e)
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": entries})
}
