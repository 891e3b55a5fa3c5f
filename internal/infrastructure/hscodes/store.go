package hscodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/exportlens/backend/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS hs_codes (
	code TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	level TEXT NOT NULL,
	parent_code TEXT,
	keywords TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_hs_codes_parent ON hs_codes(parent_code);
CREATE INDEX IF NOT EXISTS idx_hs_codes_level ON hs_codes(level);
`

// Store is a sqlite-backed HS code hierarchy
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HS database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the hs_codes table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create HS schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of stored codes
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hs_codes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrHSDataUnavailable, err)
	}
	return n, nil
}

// Seed replaces the stored hierarchy with codes in one transaction. Codes are
// validated first, so a bad seed leaves the existing data untouched.
func (s *Store) Seed(ctx context.Context, codes []domain.HSCode) error {
	if err := domain.ValidateHSCodes(codes); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hs_codes`); err != nil {
		return fmt.Errorf("failed to clear hs_codes table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hs_codes (code, description, level, parent_code, keywords)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range codes {
		parent := sql.NullString{String: c.ParentCode, Valid: c.ParentCode != ""}
		if _, err := stmt.ExecContext(ctx, c.Code, c.Description, string(c.Level), parent, strings.Join(c.Keywords, ",")); err != nil {
			return fmt.Errorf("failed to insert HS code %s: %w", c.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("[HS] Seeded %d HS codes", len(codes))
	return nil
}

// SeedIfEmpty seeds codes only when the table has no rows. It reports whether it seeded.
func (s *Store) SeedIfEmpty(ctx context.Context, codes []domain.HSCode) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, s.Seed(ctx, codes)
}

// ListAll returns every code ordered by code
func (s *Store) ListAll(ctx context.Context) ([]domain.HSCode, error) {
	return s.query(ctx, `SELECT code, description, level, parent_code, keywords FROM hs_codes ORDER BY code`)
}

// Get returns a single code or ErrHSCodeNotFound
func (s *Store) Get(ctx context.Context, code string) (*domain.HSCode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code, description, level, parent_code, keywords FROM hs_codes WHERE code = ?`, code)

	c, err := scanCode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrHSCodeNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHSDataUnavailable, err)
	}
	return &c, nil
}

// Children returns the codes one level below code, ordered by code
func (s *Store) Children(ctx context.Context, code string) ([]domain.HSCode, error) {
	return s.query(ctx,
		`SELECT code, description, level, parent_code, keywords FROM hs_codes WHERE parent_code = ? ORDER BY code`, code)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.HSCode, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHSDataUnavailable, err)
	}
	defer rows.Close()

	codes := []domain.HSCode{}
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrHSDataUnavailable, err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHSDataUnavailable, err)
	}
	return codes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCode(row scanner) (domain.HSCode, error) {
	var (
		c        domain.HSCode
		level    string
		parent   sql.NullString
		keywords string
	)
	if err := row.Scan(&c.Code, &c.Description, &level, &parent, &keywords); err != nil {
		return domain.HSCode{}, err
	}
	c.Level = domain.HSLevel(level)
	c.ParentCode = parent.String
	if keywords != "" {
		c.Keywords = strings.Split(keywords, ",")
	}
	return c, nil
}

var _ domain.HSCodeRepository = (*Store)(nil)
