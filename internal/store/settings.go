package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/miniledger-balances/internal/ledger"
)

const bookColumns = `id, name, decimal_separator, fraction_digits, time_zone_offset, date_pattern, periodicity`

// UpsertBook creates a book or replaces its settings.
func (s *Store) UpsertBook(ctx context.Context, settings *ledger.BookSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.Name == "" {
		settings.Name = settings.ID
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			decimal_separator = excluded.decimal_separator,
			fraction_digits = excluded.fraction_digits,
			time_zone_offset = excluded.time_zone_offset,
			date_pattern = excluded.date_pattern,
			periodicity = excluded.periodicity`,
		settings.ID, settings.Name, string(settings.DecimalSeparator), settings.FractionDigits,
		settings.TimeZoneOffset, settings.DatePattern, string(settings.Periodicity),
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

func (s *Store) GetBook(ctx context.Context, id string) (*ledger.BookSettings, error) {
	var b ledger.BookSettings
	err := s.reader.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.DecimalSeparator, &b.FractionDigits, &b.TimeZoneOffset, &b.DatePattern, &b.Periodicity)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (s *Store) ListBooks(ctx context.Context) ([]ledger.BookSettings, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []ledger.BookSettings
	for rows.Next() {
		var b ledger.BookSettings
		if err := rows.Scan(&b.ID, &b.Name, &b.DecimalSeparator, &b.FractionDigits, &b.TimeZoneOffset, &b.DatePattern, &b.Periodicity); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.writer.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrBookNotFound
	}
	return nil
}

func (s *Store) requireBook(ctx context.Context, id string) error {
	var exists int
	err := s.reader.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ledger.ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	return nil
}
