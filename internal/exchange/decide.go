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

// Decide settles a pending request one way or the other. Only the provider
// may decide. Declining is terminal. Accepting first gates on the requester's
// spendable credits (the request stays pending and actionable when they can't
// cover the session cost) and then creates the session exactly once; a second
// accept returns the existing session instead of creating another.
func Decide(ctx context.Context, pool *pgxpool.Pool, requestID, actorID string, accept bool) (*SkillRequest, *ServiceSession, error) {
	var (
		req     *SkillRequest
		session *ServiceSession
	)

	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		r, err := getRequest(ctx, tx, requestID, true)
		if err != nil {
			return err
		}
		if r.ProviderID != actorID {
			return ErrUnauthorized
		}
		req = r

		if !accept {
			if r.Status == RequestAccepted {
				return ErrRequestClosed
			}
			if _, err := tx.Exec(ctx,
				`UPDATE skill_requests SET status = 'declined' WHERE id = $1`, r.ID); err != nil {
				return fmt.Errorf("failed to decline request %s: %w", r.ID, err)
			}
			r.Status = RequestDeclined
			return nil
		}

		if r.Status == RequestDeclined {
			return ErrRequestClosed
		}
		if r.Status == RequestAccepted {
			existing, err := sessionForRequest(ctx, tx, r.ID)
			if err != nil {
				return err
			}
			session = existing
			return nil
		}

		// Gate on spendable credits with the requester's wallet row locked, so
		// the decision and the status write happen against the same balance.
		spendable, err := wallet.SpendableLocked(ctx, tx, r.RequesterID)
		if err != nil {
			return err
		}
		if spendable < SessionCost {
			return &wallet.InsufficientCreditsError{Available: spendable}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE skill_requests SET status = 'accepted' WHERE id = $1`, r.ID); err != nil {
			return fmt.Errorf("failed to accept request %s: %w", r.ID, err)
		}
		r.Status = RequestAccepted

		// Insert-if-absent keyed by the unique request_id, then fetch: exactly
		// one session per request even under racing accepts.
		if _, err := tx.Exec(ctx, `
			INSERT INTO service_sessions (id, request_id, skill_id, seeker_id, provider_id, hours, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending')
			ON CONFLICT (request_id) DO NOTHING
		`, uuid.New().String(), r.ID, r.SkillID, r.RequesterID, r.ProviderID, SessionCost); err != nil {
			return fmt.Errorf("failed to create session for request %s: %w", r.ID, err)
		}

		created, err := sessionForRequest(ctx, tx, r.ID)
		if err != nil {
			return err
		}
		session = created
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if session != nil {
		log.WithFields(log.Fields{
			"request_id": req.ID,
			"session_id": session.ID,
		}).Info("request accepted")
	}

	return req, session, nil
}

// sessionForRequest fetches the session spawned by a request.
func sessionForRequest(ctx context.Context, q db.Queryer, requestID string) (*ServiceSession, error) {
	var s ServiceSession
	err := q.QueryRow(ctx, `
		SELECT id, request_id, skill_id, seeker_id, provider_id, hours, status, created_at
		FROM service_sessions WHERE request_id = $1
	`, requestID).Scan(&s.ID, &s.RequestID, &s.SkillID, &s.SeekerID, &s.ProviderID, &s.Hours, &s.Status, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session for request %s: %w", requestID, err)
	}
	return &s, nil
}
