package store

import (
	"context"
	"fmt"

	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// ChartResult counts what SeedStarterChart wrote.
type ChartResult struct {
	Groups   int `json:"groups"`
	Accounts int `json:"accounts"`
}

// SeedStarterChart upserts the starter groups and accounts into a book.
// Existing entries with the same names are overwritten.
func (s *Store) SeedStarterChart(ctx context.Context, bookID string) (*ChartResult, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	var res ChartResult
	for _, g := range ledger.StarterGroups {
		grp := g
		if err := s.UpsertGroup(ctx, bookID, &grp); err != nil {
			return nil, fmt.Errorf("seed group %s: %w", g.Name, err)
		}
		res.Groups++
	}
	for _, e := range ledger.StarterChart {
		acct := e.Account()
		if err := s.UpsertAccount(ctx, bookID, &acct); err != nil {
			return nil, fmt.Errorf("seed account %d: %w", e.Code, err)
		}
		res.Accounts++
	}
	return &res, nil
}
