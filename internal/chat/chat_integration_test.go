package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/testutil"
)

func createRequest(t *testing.T, pool *pgxpool.Pool, skillID, requesterID, providerID, note string) string {
	t.Helper()

	requestID := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO skill_requests (id, skill_id, requester_id, provider_id, status, note)
		VALUES ($1, $2, $3, $4, 'pending', $5)
	`, requestID, skillID, requesterID, providerID, note)
	require.NoError(t, err)

	return requestID
}

func TestThreadCounterpart_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	pool := testDB.Pool
	ctx := context.Background()

	seeker := testutil.CreateMember(t, pool, "alice", 10)
	provider := testutil.CreateMember(t, pool, "bob", 10)
	outsider := testutil.CreateMember(t, pool, "mallory", 10)
	skillID := testutil.CreateSkill(t, pool, provider, "drumming")
	requestID := createRequest(t, pool, skillID, seeker, provider, "hi")

	t.Run("each party sees the other", func(t *testing.T) {
		counterpart, err := threadCounterpart(ctx, requestID, seeker)
		require.NoError(t, err)
		assert.Equal(t, provider, counterpart)

		counterpart, err = threadCounterpart(ctx, requestID, provider)
		require.NoError(t, err)
		assert.Equal(t, seeker, counterpart)
	})

	t.Run("outsiders are rejected", func(t *testing.T) {
		_, err := threadCounterpart(ctx, requestID, outsider)
		assert.ErrorIs(t, err, errNotParticipant)
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := threadCounterpart(ctx, "7b6ad0d4-0000-0000-0000-000000000000", seeker)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestLoadMessages_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	pool := testDB.Pool
	ctx := context.Background()

	seeker := testutil.CreateMember(t, pool, "carol", 10)
	provider := testutil.CreateMember(t, pool, "dave", 10)
	skillID := testutil.CreateSkill(t, pool, provider, "weaving")
	requestID := createRequest(t, pool, skillID, seeker, provider, "hello there")

	for i, text := range []string{"first", "second", "third"} {
		sender := seeker
		if i%2 == 1 {
			sender = provider
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO messages (id, request_id, sender_id, text, created_at)
			VALUES ($1, $2, $3, $4, NOW() + make_interval(secs => $5))
		`, uuid.New().String(), requestID, sender, text, i)
		require.NoError(t, err)
	}

	msgs, err := loadMessages(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)

	info, err := loadRequestInfo(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", info.Note)
	assert.Equal(t, seeker, info.RequesterID)
}
