package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/testutil"
	"skillswap/internal/wallet"
)

func TestRequestLifecycle_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	pool := testDB.Pool
	ctx := context.Background()

	t.Run("full lifecycle: request, accept, complete", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "alice", 10)
		provider := testutil.CreateMember(t, pool, "bob", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "guitar lessons")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "can you teach me?")
		require.NoError(t, err)
		assert.Equal(t, RequestPending, req.Status)
		assert.Equal(t, provider, req.ProviderID)

		// The note becomes the thread's first stored message
		var msgCount int
		err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE request_id = $1`, req.ID).Scan(&msgCount)
		require.NoError(t, err)
		assert.Equal(t, 1, msgCount)

		decided, session, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)
		assert.Equal(t, RequestAccepted, decided.Status)
		require.NotNil(t, session)
		assert.Equal(t, SessionPending, session.Status)
		assert.Equal(t, SessionCost, session.Hours)

		// Pending session earmarks one credit
		spendable, err := wallet.Spendable(ctx, pool, seeker)
		require.NoError(t, err)
		assert.Equal(t, int64(9), spendable)
		assert.Equal(t, int64(10), testutil.Balance(t, pool, seeker))

		completed, err := CompleteSession(ctx, pool, session.ID, provider)
		require.NoError(t, err)
		assert.Equal(t, SessionCompleted, completed.Status)

		assert.Equal(t, int64(9), testutil.Balance(t, pool, seeker))
		assert.Equal(t, int64(11), testutil.Balance(t, pool, provider))

		// Completion is one-way
		_, err = CompleteSession(ctx, pool, session.ID, provider)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
		assert.Equal(t, int64(9), testutil.Balance(t, pool, seeker))
		assert.Equal(t, int64(11), testutil.Balance(t, pool, provider))
	})

	t.Run("accept fails on zero spendable credits", func(t *testing.T) {
		broke := testutil.CreateMember(t, pool, "carol", 0)
		provider := testutil.CreateMember(t, pool, "dave", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "pottery")

		req, err := CreateRequest(ctx, pool, broke, skillID, "")
		require.NoError(t, err)

		_, _, err = Decide(ctx, pool, req.ID, provider, true)
		var insufficient *wallet.InsufficientCreditsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(0), insufficient.Available)

		// Request stays pending and actionable
		refetched, err := getRequest(ctx, pool, req.ID, false)
		require.NoError(t, err)
		assert.Equal(t, RequestPending, refetched.Status)
		assert.Equal(t, 0, testutil.SessionCount(t, pool, req.ID))
	})

	t.Run("duplicate request returns the existing one", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "erin", 10)
		provider := testutil.CreateMember(t, pool, "frank", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "welding")

		first, err := CreateRequest(ctx, pool, seeker, skillID, "hello")
		require.NoError(t, err)
		second, err := CreateRequest(ctx, pool, seeker, skillID, "hello again")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("requesting own skill is rejected", func(t *testing.T) {
		owner := testutil.CreateMember(t, pool, "grace", 10)
		skillID := testutil.CreateSkill(t, pool, owner, "origami")

		_, err := CreateRequest(ctx, pool, owner, skillID, "")
		assert.ErrorIs(t, err, ErrSelfRequest)
	})

	t.Run("request for unknown skill", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "heidi", 10)

		_, err := CreateRequest(ctx, pool, seeker, "7b6ad0d4-0000-0000-0000-000000000000", "")
		assert.ErrorIs(t, err, ErrSkillNotFound)
	})

	t.Run("only the provider may decide", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "ivan", 10)
		provider := testutil.CreateMember(t, pool, "judy", 10)
		bystander := testutil.CreateMember(t, pool, "karl", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "chess")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)

		_, _, err = Decide(ctx, pool, req.ID, seeker, true)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, _, err = Decide(ctx, pool, req.ID, bystander, false)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("accepting twice yields exactly one session", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "liam", 10)
		provider := testutil.CreateMember(t, pool, "mia", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "baking")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)

		_, first, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)
		_, second, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, testutil.SessionCount(t, pool, req.ID))
	})

	t.Run("declined requests stay declined", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "nina", 10)
		provider := testutil.CreateMember(t, pool, "oscar", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "juggling")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)

		declined, _, err := Decide(ctx, pool, req.ID, provider, false)
		require.NoError(t, err)
		assert.Equal(t, RequestDeclined, declined.Status)
		assert.Equal(t, 0, testutil.SessionCount(t, pool, req.ID))

		// Re-declining is harmless, accepting a declined request is not possible
		_, _, err = Decide(ctx, pool, req.ID, provider, false)
		require.NoError(t, err)
		_, _, err = Decide(ctx, pool, req.ID, provider, true)
		assert.ErrorIs(t, err, ErrRequestClosed)
	})

	t.Run("only the provider may complete", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "pam", 10)
		provider := testutil.CreateMember(t, pool, "quinn", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "carpentry")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)
		_, session, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)

		_, err = CompleteSession(ctx, pool, session.ID, seeker)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("completing an unknown session", func(t *testing.T) {
		actor := testutil.CreateMember(t, pool, "rita", 10)

		_, err := CompleteSession(ctx, pool, "7b6ad0d4-0000-0000-0000-000000000001", actor)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("completion re-validates the seeker balance", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "sam", 10)
		provider := testutil.CreateMember(t, pool, "tess", 10)
		skillID := testutil.CreateSkill(t, pool, provider, "sailing")

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)
		_, session, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)

		// Drain the seeker's wallet behind the session's back
		_, err = pool.Exec(ctx, `UPDATE wallets SET balance = 0 WHERE member_id = $1`, seeker)
		require.NoError(t, err)

		_, err = CompleteSession(ctx, pool, session.ID, provider)
		var insufficient *wallet.InsufficientCreditsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(0), insufficient.Available)

		// Nothing was applied: session still pending, provider untouched
		refetched, err := getSession(ctx, pool, session.ID, false)
		require.NoError(t, err)
		assert.Equal(t, SessionPending, refetched.Status)
		assert.Equal(t, int64(10), testutil.Balance(t, pool, provider))
	})

	t.Run("conservation across settlement", func(t *testing.T) {
		seeker := testutil.CreateMember(t, pool, "uma", 7)
		provider := testutil.CreateMember(t, pool, "vic", 3)
		skillID := testutil.CreateSkill(t, pool, provider, "archery")

		before := testutil.Balance(t, pool, seeker) + testutil.Balance(t, pool, provider)

		req, err := CreateRequest(ctx, pool, seeker, skillID, "")
		require.NoError(t, err)
		_, session, err := Decide(ctx, pool, req.ID, provider, true)
		require.NoError(t, err)
		_, err = CompleteSession(ctx, pool, session.ID, provider)
		require.NoError(t, err)

		after := testutil.Balance(t, pool, seeker) + testutil.Balance(t, pool, provider)
		assert.Equal(t, before, after)
	})
}

func TestRequestSummaries_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	pool := testDB.Pool
	ctx := context.Background()

	seeker := testutil.CreateMember(t, pool, "wendy", 10)
	provider := testutil.CreateMember(t, pool, "xavier", 10)
	skillID := testutil.CreateSkill(t, pool, provider, "calligraphy")

	req, err := CreateRequest(ctx, pool, seeker, skillID, "teach me please")
	require.NoError(t, err)
	_, session, err := Decide(ctx, pool, req.ID, provider, true)
	require.NoError(t, err)

	outgoing, err := ListRequestSummaries(ctx, pool, seeker)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "outgoing", outgoing[0].Direction)
	assert.Equal(t, "xavier", outgoing[0].CounterpartName)
	assert.Equal(t, RequestAccepted, outgoing[0].Status)
	require.NotNil(t, outgoing[0].SessionID)
	assert.Equal(t, session.ID, *outgoing[0].SessionID)

	incoming, err := ListRequestSummaries(ctx, pool, provider)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "incoming", incoming[0].Direction)
	assert.Equal(t, "wendy", incoming[0].CounterpartName)
	assert.Equal(t, "teach me please", incoming[0].Note)
}

func TestWalletNeverNegative_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	pool := testDB.Pool
	ctx := context.Background()

	seeker := testutil.CreateMember(t, pool, "yara", 1)
	provider := testutil.CreateMember(t, pool, "zane", 0)
	skillID := testutil.CreateSkill(t, pool, provider, "singing")

	// One credit covers exactly one session; a second settlement must fail
	// rather than drive the balance negative.
	req, err := CreateRequest(ctx, pool, seeker, skillID, "")
	require.NoError(t, err)
	_, session, err := Decide(ctx, pool, req.ID, provider, true)
	require.NoError(t, err)
	_, err = CompleteSession(ctx, pool, session.ID, provider)
	require.NoError(t, err)

	assert.Equal(t, int64(0), testutil.Balance(t, pool, seeker))
	assert.Equal(t, int64(1), testutil.Balance(t, pool, provider))

	direct, err := CreateDirectSession(ctx, pool, skillID, seeker, provider, 1)
	require.NoError(t, err)
	_, err = CompleteSession(ctx, pool, direct.ID, provider)
	var insufficient *wallet.InsufficientCreditsError
	require.True(t, errors.As(err, &insufficient))
	assert.GreaterOrEqual(t, testutil.Balance(t, pool, seeker), int64(0))
}
