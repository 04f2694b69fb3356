package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/book"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

var _ book.Resolver = (*Store)(nil)

// OpenReport decodes a stored snapshot into a report bound to its book, so
// table formatting follows the book settings and properties resolve from
// the stored accounts and groups.
func (s *Store) OpenReport(ctx context.Context, snapshotID string) (*balances.Report, error) {
	snap, err := s.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetBook(ctx, snap.BookID)
	if err != nil {
		return nil, err
	}

	var payload balances.Payload
	if err := json.Unmarshal(snap.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrInvalidSnapshot, err)
	}
	if payload.Periodicity == "" {
		payload.Periodicity = snap.Periodicity
	}
	return balances.NewReport(book.New(*settings, s), &payload), nil
}
