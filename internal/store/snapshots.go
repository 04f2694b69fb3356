package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// CreateSnapshot stores a raw balances payload for a book. The payload must
// decode as a balances report; a missing periodicity is taken from the book.
func (s *Store) CreateSnapshot(ctx context.Context, bookID string, payload []byte) (*ledger.Snapshot, error) {
	settings, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	report, err := balances.ParseReport(payload, nil)
	if err != nil {
		return nil, err
	}
	periodicity := report.Periodicity()
	if periodicity == "" {
		periodicity = settings.Periodicity
	}
	if !ledger.ValidPeriodicity(periodicity) {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidPeriodicity, periodicity)
	}

	snap := &ledger.Snapshot{
		ID:          uuid.Must(uuid.NewV7()).String(),
		BookID:      bookID,
		Periodicity: periodicity,
		CreatedAt:   time.Now().UTC(),
		Payload:     payload,
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO snapshots (id, book_id, periodicity, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.BookID, string(snap.Periodicity), string(payload), snap.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// GetSnapshot returns a snapshot with its payload.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var payload, createdAt string

	err := s.reader.QueryRowContext(ctx,
		`SELECT id, book_id, periodicity, payload, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.BookID, &snap.Periodicity, &payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	snap.Payload = []byte(payload)
	snap.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &snap, nil
}

// LatestSnapshot returns the most recent snapshot of a book.
func (s *Store) LatestSnapshot(ctx context.Context, bookID string) (*ledger.Snapshot, error) {
	var id string
	err := s.reader.QueryRowContext(ctx,
		`SELECT id FROM snapshots WHERE book_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, bookID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return s.GetSnapshot(ctx, id)
}

// ListSnapshots returns a book's snapshots, newest first, without payloads.
func (s *Store) ListSnapshots(ctx context.Context, bookID string, filter SnapshotFilter) ([]ledger.Snapshot, error) {
	query := paginate(`SELECT id, book_id, periodicity, created_at FROM snapshots
		WHERE book_id = ? ORDER BY created_at DESC, id DESC`, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []ledger.Snapshot
	for rows.Next() {
		var snap ledger.Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.BookID, &snap.Periodicity, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.writer.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrSnapshotNotFound
	}
	return nil
}
