package skill

import "time"

// Skill is an offer to teach something, owned by exactly one member.
type Skill struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Rate        int       `json:"rate"`
	Rating      float64   `json:"rating"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
