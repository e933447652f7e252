package chat

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"skillswap/internal/db"
)

// requestInfo is the materialized slice of a request the projector needs; no
// lazy traversal, everything is fetched up front.
type requestInfo struct {
	ID              string
	RequesterID     string
	ProviderID      string
	Status          string
	Note            string
	CreatedAt       time.Time
	CounterpartID   string
	CounterpartName string
}

// Conversations - every thread the member takes part in, with messages
func Conversations(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()

	requests, err := loadMemberRequests(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch requests"})
	}

	threads := make([]Thread, 0, len(requests))
	for _, req := range requests {
		msgs, err := loadMessages(ctx, req.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch messages"})
		}
		threads = append(threads, buildThread(userID, req, msgs))
	}

	return c.JSON(http.StatusOK, echo.Map{"conversations": threads})
}

// buildThread assembles one conversation view. Threads with no stored message
// get a single synthetic entry derived from the request note, attributed to
// the requester at the request's creation time.
func buildThread(viewerID string, req requestInfo, msgs []Message) Thread {
	entries := threadMessages(viewerID, req, msgs)

	last := ""
	lastTime := ""
	if n := len(entries); n > 0 {
		last = entries[n-1].Text
		lastTime = entries[n-1].CreatedAt
	}

	return Thread{
		RequestID:       req.ID,
		Status:          req.Status,
		CounterpartID:   req.CounterpartID,
		CounterpartName: req.CounterpartName,
		AvatarInitial:   avatarInitial(req.CounterpartName),
		LastMessage:     last,
		LastMessageTime: lastTime,
		Messages:        entries,
	}
}

// threadMessages orders a thread's messages and synthesizes the note message
// for threads that have none stored.
func threadMessages(viewerID string, req requestInfo, msgs []Message) []ThreadMessage {
	if len(msgs) == 0 && strings.TrimSpace(req.Note) != "" {
		return []ThreadMessage{{
			ID:        "",
			SenderID:  req.RequesterID,
			Text:      req.Note,
			CreatedAt: req.CreatedAt.UTC().Format(time.RFC3339),
			Sent:      req.RequesterID == viewerID,
			Synthetic: true,
		}}
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	entries := make([]ThreadMessage, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, ThreadMessage{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
			Sent:      m.SenderID == viewerID,
		})
	}
	return entries
}

// avatarInitial returns the uppercased first letter of a name, or "?" when
// the name is blank.
func avatarInitial(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "?"
	}
	runes := []rune(trimmed)
	return string(unicode.ToUpper(runes[0]))
}

func loadMemberRequests(ctx context.Context, memberID string) ([]requestInfo, error) {
	rows, err := db.Conn.Query(ctx, `
		SELECT
			r.id, r.requester_id, r.provider_id, r.status, r.note, r.created_at,
			CASE WHEN r.requester_id = $1 THEN r.provider_id ELSE r.requester_id END,
			CASE WHEN r.requester_id = $1 THEN p.name ELSE req.name END
		FROM skill_requests r
		JOIN members req ON req.id = r.requester_id
		JOIN members p ON p.id = r.provider_id
		WHERE r.requester_id = $1 OR r.provider_id = $1
		ORDER BY r.created_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []requestInfo
	for rows.Next() {
		var r requestInfo
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.ProviderID, &r.Status, &r.Note,
			&r.CreatedAt, &r.CounterpartID, &r.CounterpartName); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func loadRequestInfo(ctx context.Context, requestID string) (*requestInfo, error) {
	var r requestInfo
	err := db.Conn.QueryRow(ctx, `
		SELECT id, requester_id, provider_id, status, note, created_at
		FROM skill_requests WHERE id = $1
	`, requestID).Scan(&r.ID, &r.RequesterID, &r.ProviderID, &r.Status, &r.Note, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func loadMessages(ctx context.Context, requestID string) ([]Message, error) {
	rows, err := db.Conn.Query(ctx, `
		SELECT id, request_id, sender_id, text, created_at
		FROM messages WHERE request_id = $1
		ORDER BY created_at ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
