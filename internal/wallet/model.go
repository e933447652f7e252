package wallet

import "time"

// Wallet holds a member's time-credit balance. The balance is an integer
// number of credits (1 credit = 1 hour) and is never negative.
type Wallet struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is an append-only ledger entry recording a balance movement.
type Transaction struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"` // grant, debit, credit
	Reference *string   `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
