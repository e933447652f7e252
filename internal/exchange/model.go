package exchange

import "time"

// Request lifecycle: pending -> accepted | declined. Accepting spawns the
// session; both outcomes are terminal for the request.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// Session lifecycle: pending -> completed. Completion settles the ledger.
const (
	SessionPending   = "pending"
	SessionCompleted = "completed"
)

// SessionCost is the fixed credit cost of one session. The skill's stated
// rate is stored but does not scale settlement.
const SessionCost = 1

// SkillRequest is a member's proposal to be taught a skill by its owner.
type SkillRequest struct {
	ID          string    `json:"id"`
	SkillID     string    `json:"skill_id"`
	RequesterID string    `json:"requester_id"`
	ProviderID  string    `json:"provider_id"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceSession is the unit of exchange created when a request is accepted.
// RequestID is nil for sessions created directly by trusted tooling.
type ServiceSession struct {
	ID         string    `json:"id"`
	RequestID  *string   `json:"request_id,omitempty"`
	SkillID    string    `json:"skill_id"`
	SeekerID   string    `json:"seeker_id"`
	ProviderID string    `json:"provider_id"`
	Hours      int       `json:"hours"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestSummary is the view-model for a member's request list.
type RequestSummary struct {
	ID              string  `json:"id"`
	Direction       string  `json:"direction"` // incoming or outgoing
	SkillName       string  `json:"skill_name"`
	Status          string  `json:"status"`
	CounterpartID   string  `json:"counterpart_id"`
	CounterpartName string  `json:"counterpart_name"`
	Note            string  `json:"note,omitempty"`
	CreatedAt       string  `json:"created_at"`
	SessionID       *string `json:"session_id,omitempty"`
	SessionStatus   *string `json:"session_status,omitempty"`
}
