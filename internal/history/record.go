// Package history keeps the in-memory transaction log shown by the wallet.
package history

import "time"

// Status is the lifecycle label of a recorded transaction.
type Status string

// Pending is the only status ever assigned; confirmations are not tracked.
const Pending Status = "Pending"

// Record mirrors a submitted swap form together with the transaction id.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    string    `json:"amount"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Status    Status    `json:"status"`
}
