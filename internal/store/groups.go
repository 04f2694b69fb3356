package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

const groupColumns = `id, name, normalized_name, parent, type, hidden, properties`

func (s *Store) UpsertGroup(ctx context.Context, bookID string, grp *ledger.Group) error {
	if err := grp.Validate(); err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	if grp.ID == "" {
		grp.ID = uuid.Must(uuid.NewV7()).String()
	}

	props, err := marshalJSON(grp.Properties, "{}")
	if err != nil {
		return err
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO account_groups (id, book_id, name, normalized_name, parent, type, hidden, properties)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(book_id, normalized_name) DO UPDATE SET
			name = excluded.name,
			parent = excluded.parent,
			type = excluded.type,
			hidden = excluded.hidden,
			properties = excluded.properties`,
		grp.ID, bookID, grp.Name, grp.NormalizedName, grp.Parent, string(grp.Type), boolToInt(grp.Hidden), props,
	)
	if err != nil {
		return fmt.Errorf("upsert group: %w", err)
	}

	stored, err := s.GetGroup(ctx, bookID, grp.Name)
	if err != nil {
		return err
	}
	grp.ID = stored.ID
	return nil
}

func (s *Store) GetGroup(ctx context.Context, bookID, name string) (*ledger.Group, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM account_groups WHERE book_id = ? AND normalized_name = ?`,
		bookID, ledger.NormalizeName(name))
	return scanGroup(row)
}

func (s *Store) ListGroups(ctx context.Context, bookID string, filter GroupFilter) ([]ledger.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM account_groups WHERE book_id = ?`
	args := []any{bookID}

	if filter.Parent != "" {
		query += ` AND parent = ?`
		args = append(args, filter.Parent)
	}
	query = paginate(query+` ORDER BY normalized_name`, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []ledger.Group
	for rows.Next() {
		grp, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *grp)
	}
	return groups, rows.Err()
}

func (s *Store) DeleteGroup(ctx context.Context, bookID, name string) error {
	res, err := s.writer.ExecContext(ctx,
		`DELETE FROM account_groups WHERE book_id = ? AND normalized_name = ?`, bookID, ledger.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrGroupNotFound
	}
	return nil
}

func scanGroup(row scanner) (*ledger.Group, error) {
	var grp ledger.Group
	var hidden int
	var props string
	err := row.Scan(&grp.ID, &grp.Name, &grp.NormalizedName, &grp.Parent, &grp.Type, &hidden, &props)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	grp.Hidden = hidden == 1
	if err := json.Unmarshal([]byte(props), &grp.Properties); err != nil {
		return nil, fmt.Errorf("decode group properties: %w", err)
	}
	return &grp, nil
}
