package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillswap/internal/db"
)

// InitialGrant is the number of credits seeded into every new wallet.
const InitialGrant = 10

// ErrWalletNotFound is returned when a member has no wallet row.
var ErrWalletNotFound = errors.New("wallet not found")

// InsufficientCreditsError reports a failed debit together with the credits
// the member actually has available, so callers can surface it.
type InsufficientCreditsError struct {
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d available", e.Available)
}

// BalanceOf returns a member's raw wallet balance.
func BalanceOf(ctx context.Context, q db.Queryer, memberID string) (int64, error) {
	var balance int64
	err := q.QueryRow(ctx, `SELECT balance FROM wallets WHERE member_id = $1`, memberID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, ErrWalletNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance for member %s: %w", memberID, err)
	}
	return balance, nil
}

// Spendable returns the member's balance minus the credits earmarked by their
// own pending sessions as seeker. It is derived on every call rather than
// stored, so it self-corrects as sessions complete or disappear.
func Spendable(ctx context.Context, q db.Queryer, memberID string) (int64, error) {
	var spendable int64
	err := q.QueryRow(ctx, `
		SELECT
			w.balance - COALESCE(
				(SELECT SUM(s.hours)
				 FROM service_sessions s
				 WHERE s.seeker_id = w.member_id
				   AND s.status = 'pending'),
				0
			) AS spendable
		FROM wallets w
		WHERE w.member_id = $1
	`, memberID).Scan(&spendable)
	if err == pgx.ErrNoRows {
		return 0, ErrWalletNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute spendable credits for member %s: %w", memberID, err)
	}
	return spendable, nil
}

// SpendableLocked is Spendable with the member's wallet row locked for the
// duration of the surrounding transaction. Accept decisions must use this so
// the gate and any later write see the same balance.
func SpendableLocked(ctx context.Context, tx pgx.Tx, memberID string) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE member_id = $1 FOR UPDATE`, memberID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, ErrWalletNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock wallet for member %s: %w", memberID, err)
	}

	var earmarked int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(hours), 0) FROM service_sessions
		WHERE seeker_id = $1 AND status = 'pending'
	`, memberID).Scan(&earmarked)
	if err != nil {
		return 0, fmt.Errorf("failed to sum pending sessions for member %s: %w", memberID, err)
	}

	return balance - earmarked, nil
}

// Transfer atomically moves amount credits from one member to another inside
// the caller's transaction, recording a ledger entry for each side. Wallet
// rows are locked in member-id order so concurrent transfers cannot deadlock.
// Returns InsufficientCreditsError when the payer cannot cover the amount.
func Transfer(ctx context.Context, tx pgx.Tx, fromID, toID string, amount int64, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	for _, id := range []string{first, second} {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE member_id = $1 FOR UPDATE`, id).Scan(&locked)
		if err == pgx.ErrNoRows {
			return ErrWalletNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock wallet for member %s: %w", id, err)
		}
	}

	var fromBalance int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE member_id = $1`, fromID).Scan(&fromBalance); err != nil {
		return fmt.Errorf("failed to read payer balance: %w", err)
	}
	if fromBalance < amount {
		return &InsufficientCreditsError{Available: fromBalance}
	}

	// Guarded debit: the WHERE clause is the last line of defence for the
	// non-negative invariant, alongside the CHECK constraint.
	res, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = balance - $1 WHERE member_id = $2 AND balance >= $1`,
		amount, fromID)
	if err != nil {
		return fmt.Errorf("failed to debit member %s: %w", fromID, err)
	}
	if res.RowsAffected() == 0 {
		return &InsufficientCreditsError{Available: fromBalance}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = balance + $1 WHERE member_id = $2`,
		amount, toID); err != nil {
		return fmt.Errorf("failed to credit member %s: %w", toID, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, member_id, amount, type, reference)
		VALUES ($1, $2, $3, 'debit', $4)
	`, uuid.New().String(), fromID, -amount, reference); err != nil {
		return fmt.Errorf("failed to record debit: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, member_id, amount, type, reference)
		VALUES ($1, $2, $3, 'credit', $4)
	`, uuid.New().String(), toID, amount, reference); err != nil {
		return fmt.Errorf("failed to record credit: %w", err)
	}

	return nil
}
