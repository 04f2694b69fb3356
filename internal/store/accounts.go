package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

const accountColumns = `id, name, normalized_name, type, archived, group_names, properties`

// UpsertAccount stores account metadata for a book. Accounts are keyed by
// normalized name; an existing account keeps its id.
func (s *Store) UpsertAccount(ctx context.Context, bookID string, acct *ledger.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	if acct.ID == "" {
		acct.ID = uuid.Must(uuid.NewV7()).String()
	}

	groups, err := marshalJSON(acct.Groups, "[]")
	if err != nil {
		return err
	}
	props, err := marshalJSON(acct.Properties, "{}")
	if err != nil {
		return err
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO accounts (id, book_id, name, normalized_name, type, archived, group_names, properties)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(book_id, normalized_name) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			archived = excluded.archived,
			group_names = excluded.group_names,
			properties = excluded.properties`,
		acct.ID, bookID, acct.Name, acct.NormalizedName, string(acct.Type), boolToInt(acct.Archived), groups, props,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	stored, err := s.GetAccount(ctx, bookID, acct.Name)
	if err != nil {
		return err
	}
	acct.ID = stored.ID
	return nil
}

// GetAccount finds an account of a book by name, ignoring case, spacing and
// diacritics.
func (s *Store) GetAccount(ctx context.Context, bookID, name string) (*ledger.Account, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE book_id = ? AND normalized_name = ?`,
		bookID, ledger.NormalizeName(name))
	return scanAccount(row)
}

func (s *Store) ListAccounts(ctx context.Context, bookID string, filter AccountFilter) ([]ledger.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE book_id = ?`
	args := []any{bookID}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if !filter.IncludeArchived {
		query += ` AND archived = 0`
	}
	query = paginate(query+` ORDER BY normalized_name`, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

func (s *Store) DeleteAccount(ctx context.Context, bookID, name string) error {
	res, err := s.writer.ExecContext(ctx,
		`DELETE FROM accounts WHERE book_id = ? AND normalized_name = ?`, bookID, ledger.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*ledger.Account, error) {
	var acct ledger.Account
	var archived int
	var groups, props string
	err := row.Scan(&acct.ID, &acct.Name, &acct.NormalizedName, &acct.Type, &archived, &groups, &props)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acct.Archived = archived == 1
	if err := json.Unmarshal([]byte(groups), &acct.Groups); err != nil {
		return nil, fmt.Errorf("decode account groups: %w", err)
	}
	if err := json.Unmarshal([]byte(props), &acct.Properties); err != nil {
		return nil, fmt.Errorf("decode account properties: %w", err)
	}
	return &acct, nil
}

func marshalJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}
