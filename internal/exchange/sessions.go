package exchange

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"skillswap/internal/db"
	"skillswap/internal/wallet"
)

// CompleteSession settles a pending session: the seeker's wallet is debited,
// the provider's credited and the session closed, all inside one transaction.
// Only the provider may complete, completion is one-way, and the seeker's
// balance is re-validated at completion time (it may have changed since the
// request was accepted).
func CompleteSession(ctx context.Context, pool *pgxpool.Pool, sessionID, actorID string) (*ServiceSession, error) {
	var session *ServiceSession

	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		s, err := getSession(ctx, tx, sessionID, true)
		if err != nil {
			return err
		}
		if s.ProviderID != actorID {
			return ErrUnauthorized
		}
		if s.Status == SessionCompleted {
			return ErrAlreadyCompleted
		}

		if err := wallet.Transfer(ctx, tx, s.SeekerID, s.ProviderID, int64(s.Hours), s.ID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE service_sessions SET status = 'completed' WHERE id = $1`, s.ID); err != nil {
			return fmt.Errorf("failed to close session %s: %w", s.ID, err)
		}
		s.Status = SessionCompleted
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"session_id":  session.ID,
		"seeker_id":   session.SeekerID,
		"provider_id": session.ProviderID,
		"hours":       session.Hours,
	}).Info("session completed, credits settled")

	return session, nil
}

// CreateDirectSession records a session without an originating request. Used
// by trusted tooling only; the normal path goes through Decide.
func CreateDirectSession(ctx context.Context, q db.Queryer, skillID, seekerID, providerID string, hours int) (*ServiceSession, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("session hours must be positive, got %d", hours)
	}

	s := &ServiceSession{
		ID:         uuid.New().String(),
		SkillID:    skillID,
		SeekerID:   seekerID,
		ProviderID: providerID,
		Hours:      hours,
		Status:     SessionPending,
	}
	err := q.QueryRow(ctx, `
		INSERT INTO service_sessions (id, skill_id, seeker_id, provider_id, hours, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING created_at
	`, s.ID, s.SkillID, s.SeekerID, s.ProviderID, s.Hours).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// getSession fetches a session by id, locking the row when lock is true.
func getSession(ctx context.Context, q db.Queryer, sessionID string, lock bool) (*ServiceSession, error) {
	query := `
		SELECT id, request_id, skill_id, seeker_id, provider_id, hours, status, created_at
		FROM service_sessions WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var s ServiceSession
	err := q.QueryRow(ctx, query, sessionID).
		Scan(&s.ID, &s.RequestID, &s.SkillID, &s.SeekerID, &s.ProviderID, &s.Hours, &s.Status, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", sessionID, err)
	}
	return &s, nil
}
