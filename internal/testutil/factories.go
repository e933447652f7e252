package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var memberSeq int

// CreateMember inserts a member with a wallet holding the given balance and
// returns the member id.
func CreateMember(t *testing.T, pool *pgxpool.Pool, name string, balance int64) string {
	t.Helper()
	ctx := context.Background()

	memberSeq++
	memberID := uuid.New().String()
	email := fmt.Sprintf("%s-%d@test.local", name, memberSeq)

	_, err := pool.Exec(ctx, `
		INSERT INTO members (id, name, email, password, location)
		VALUES ($1, $2, $3, 'x', 'Testville')
	`, memberID, name, email)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO wallets (id, member_id, balance)
		VALUES ($1, $2, $3)
	`, uuid.New().String(), memberID, balance)
	require.NoError(t, err)

	return memberID
}

// CreateSkill inserts a skill owned by memberID and returns the skill id.
func CreateSkill(t *testing.T, pool *pgxpool.Pool, memberID, name string) string {
	t.Helper()

	skillID := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO skills (id, member_id, name, description)
		VALUES ($1, $2, $3, 'test skill')
	`, skillID, memberID, name)
	require.NoError(t, err)

	return skillID
}

// CreateSession inserts a service session directly, bypassing the request
// flow, and returns the session id.
func CreateSession(t *testing.T, pool *pgxpool.Pool, skillID, seekerID, providerID string, hours int64, status string) string {
	t.Helper()

	sessionID := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO service_sessions (id, skill_id, seeker_id, provider_id, hours, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, skillID, seekerID, providerID, hours, status)
	require.NoError(t, err)

	return sessionID
}

// Balance reads a member's wallet balance directly.
func Balance(t *testing.T, pool *pgxpool.Pool, memberID string) int64 {
	t.Helper()

	var balance int64
	err := pool.QueryRow(context.Background(),
		`SELECT balance FROM wallets WHERE member_id = $1`, memberID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// SessionCount returns how many sessions exist for a request.
func SessionCount(t *testing.T, pool *pgxpool.Pool, requestID string) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM service_sessions WHERE request_id = $1`, requestID).Scan(&count)
	require.NoError(t, err)
	return count
}
