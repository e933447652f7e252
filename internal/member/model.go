package member

import "time"

// Member is a marketplace participant. Identity (id, email) is immutable
// after signup; name and location may be edited by the owner.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never return
	Location  string    `json:"location"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
