package ledger

import (
	"encoding/json"
	"time"
)

// Snapshot is a stored balances report of a book, kept as delivered.
type Snapshot struct {
	ID          string          `json:"id"`
	BookID      string          `json:"book_id"`
	Periodicity Periodicity     `json:"periodicity"`
	CreatedAt   time.Time       `json:"created_at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}
