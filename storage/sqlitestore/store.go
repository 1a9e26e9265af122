// Package sqlitestore implements user and scholarship persistence over a
// single SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/scholarhub/portal/scholarships"
	"github.com/scholarhub/portal/users"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	verified      INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scholarships (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL DEFAULT '',
	deadline    INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scholarships_created_at ON scholarships (created_at DESC);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store owns the SQLite handle. One file backs both users and scholarships
// so the whole app shares a single visibility boundary.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the SQLite store and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %q: %w", dir, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// SQLite handles one writer at a time; serialize through one conn.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Users returns the users.UserRepo view of the store.
func (s *Store) Users() *UserStore {
	return &UserStore{sqlDB: s.sqlDB}
}

// Scholarships returns the scholarships.Repo view of the store.
func (s *Store) Scholarships() *ScholarshipStore {
	return &ScholarshipStore{sqlDB: s.sqlDB}
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) &&
		(serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// UserStore persists user accounts.
type UserStore struct {
	sqlDB *sql.DB
}

var _ users.UserRepo = (*UserStore)(nil)

// Create inserts a new user. The UNIQUE index on email makes the
// uniqueness check atomic: of two racing creates, exactly one succeeds.
func (s *UserStore) Create(ctx context.Context, u *users.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, verified, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, boolToInt(u.Verified), toMillis(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return users.DuplicateUserErr
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.getUser(ctx, `SELECT id, email, name, password_hash, verified, created_at FROM users WHERE email = ?`, email)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*users.User, error) {
	return s.getUser(ctx, `SELECT id, email, name, password_hash, verified, created_at FROM users WHERE id = ?`, id)
}

func (s *UserStore) getUser(ctx context.Context, query, arg string) (*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		u         users.User
		verified  int
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &verified, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.NotFoundErr
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Verified = verified != 0
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// ScholarshipStore persists the scholarship catalogue.
type ScholarshipStore struct {
	sqlDB *sql.DB
}

var _ scholarships.Repo = (*ScholarshipStore)(nil)

func (s *ScholarshipStore) Create(ctx context.Context, sch *scholarships.Scholarship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sch.ID == "" {
		sch.ID = uuid.New().String()
	}
	if sch.CreatedAt.IsZero() {
		sch.CreatedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO scholarships (id, title, description, amount, deadline, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sch.ID, sch.Title, sch.Description, sch.Amount, toMillis(sch.Deadline), toMillis(sch.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert scholarship: %w", err)
	}
	return nil
}

// List returns all scholarships, newest first.
func (s *ScholarshipStore) List(ctx context.Context) ([]*scholarships.Scholarship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, title, description, amount, deadline, created_at FROM scholarships ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query scholarships: %w", err)
	}
	defer rows.Close()

	var out []*scholarships.Scholarship
	for rows.Next() {
		var (
			sch      scholarships.Scholarship
			deadline int64
			created  int64
		)
		if err := rows.Scan(&sch.ID, &sch.Title, &sch.Description, &sch.Amount, &deadline, &created); err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		sch.Deadline = fromMillis(deadline)
		sch.CreatedAt = fromMillis(created)
		out = append(out, &sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholarships: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
