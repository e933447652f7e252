package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillswap/internal/db"
)

// CreateRequest opens a skill request from requesterID for skillID. If the
// requester already has a live (pending or accepted) request for the skill,
// that request is returned unchanged instead of creating a duplicate. A
// non-empty note becomes the first message of the request's thread.
func CreateRequest(ctx context.Context, pool *pgxpool.Pool, requesterID, skillID, note string) (*SkillRequest, error) {
	var req *SkillRequest

	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var providerID string
		err := tx.QueryRow(ctx, `SELECT member_id FROM skills WHERE id = $1`, skillID).Scan(&providerID)
		if err == pgx.ErrNoRows {
			return ErrSkillNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch skill %s: %w", skillID, err)
		}

		if providerID == requesterID {
			return ErrSelfRequest
		}

		existing, err := liveRequestFor(ctx, tx, skillID, requesterID)
		if err != nil {
			return err
		}
		if existing != nil {
			req = existing
			return nil
		}

		created := &SkillRequest{
			ID:          uuid.New().String(),
			SkillID:     skillID,
			RequesterID: requesterID,
			ProviderID:  providerID,
			Status:      RequestPending,
			Note:        note,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO skill_requests (id, skill_id, requester_id, provider_id, status, note)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, created.ID, created.SkillID, created.RequesterID, created.ProviderID, created.Status, created.Note).
			Scan(&created.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		if note != "" {
			if _, err := tx.Exec(ctx, `
				INSERT INTO messages (id, request_id, sender_id, text, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New().String(), created.ID, requesterID, note, created.CreatedAt); err != nil {
				return fmt.Errorf("failed to store request note: %w", err)
			}
		}

		req = created
		return nil
	})

	// Two concurrent creates can both pass the dedup read; the partial unique
	// index rejects the loser, which then returns the winner's request.
	if db.IsUniqueViolation(err) {
		existing, ferr := liveRequestFor(ctx, pool, skillID, requesterID)
		if ferr != nil {
			return nil, ferr
		}
		if existing != nil {
			return existing, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// liveRequestFor finds the requester's pending or accepted request for a
// skill, if any.
func liveRequestFor(ctx context.Context, q db.Queryer, skillID, requesterID string) (*SkillRequest, error) {
	var r SkillRequest
	err := q.QueryRow(ctx, `
		SELECT id, skill_id, requester_id, provider_id, status, note, created_at
		FROM skill_requests
		WHERE skill_id = $1 AND requester_id = $2 AND status IN ('pending', 'accepted')
	`, skillID, requesterID).Scan(&r.ID, &r.SkillID, &r.RequesterID, &r.ProviderID, &r.Status, &r.Note, &r.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing request: %w", err)
	}
	return &r, nil
}

// getRequest fetches a request by id, locking the row when lock is true.
func getRequest(ctx context.Context, q db.Queryer, requestID string, lock bool) (*SkillRequest, error) {
	query := `
		SELECT id, skill_id, requester_id, provider_id, status, note, created_at
		FROM skill_requests WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var r SkillRequest
	err := q.QueryRow(ctx, query, requestID).
		Scan(&r.ID, &r.SkillID, &r.RequesterID, &r.ProviderID, &r.Status, &r.Note, &r.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request %s: %w", requestID, err)
	}
	return &r, nil
}

// ListRequestSummaries materializes the request list view for a member:
// every request where the member is requester (outgoing) or provider
// (incoming), with counterpart identity and session state joined in.
func ListRequestSummaries(ctx context.Context, q db.Queryer, memberID string) ([]RequestSummary, error) {
	rows, err := q.Query(ctx, `
		SELECT
			r.id,
			CASE WHEN r.requester_id = $1 THEN 'outgoing' ELSE 'incoming' END,
			sk.name,
			r.status,
			CASE WHEN r.requester_id = $1 THEN r.provider_id ELSE r.requester_id END,
			CASE WHEN r.requester_id = $1 THEN p.name ELSE req.name END,
			r.note,
			r.created_at,
			s.id,
			s.status
		FROM skill_requests r
		JOIN skills sk ON sk.id = r.skill_id
		JOIN members req ON req.id = r.requester_id
		JOIN members p ON p.id = r.provider_id
		LEFT JOIN service_sessions s ON s.request_id = r.id
		WHERE r.requester_id = $1 OR r.provider_id = $1
		ORDER BY r.created_at DESC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for member %s: %w", memberID, err)
	}
	defer rows.Close()

	var summaries []RequestSummary
	for rows.Next() {
		var s RequestSummary
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.Direction, &s.SkillName, &s.Status,
			&s.CounterpartID, &s.CounterpartName, &s.Note, &createdAt,
			&s.SessionID, &s.SessionStatus); err != nil {
			return nil, fmt.Errorf("failed to scan request summary: %w", err)
		}
		s.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
