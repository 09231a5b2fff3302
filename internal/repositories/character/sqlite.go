package character

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

// OpenSQLite opens the database at path. MemoryDSN is limited to a single
// connection so every query sees the same database.
func OpenSQLite(path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}

	dsn := path
	if path != MemoryDSN {
		dsn = "file:" + filepath.Clean(path) +
			"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	if path == MemoryDSN {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite database")
	}
	return db, nil
}

type sqliteRepository struct {
	db    *sql.DB
	stamp stamp
}

// SQLiteConfig contains configuration for the SQLite character repository
type SQLiteConfig struct {
	DB          *sql.DB
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.DB == nil {
		vb.RequiredField("DB")
	}
	return vb.Build()
}

// NewSQLite creates a SQLite-backed character repository and applies the
// embedded migrations
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if err := migrate(ctx, cfg.DB); err != nil {
		return nil, err
	}

	return &sqliteRepository{
		db:    cfg.DB,
		stamp: newStamp(cfg.Clock, cfg.IDGenerator),
	}, nil
}

// migrate runs every embedded migration not yet recorded
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return errors.Wrap(err, "failed to ensure migration table")
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		var applied int
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, file,
		).Scan(&applied); err != nil {
			return errors.Wrapf(err, "failed to check migration %s", file)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", file)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "failed to begin migration")
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %s", file)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %s", file)
		}
		slog.Info("Applied migration", "name", file)
	}
	return nil
}

func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	char, err := r.stamp.prepareCreate(input.Character)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (id, player_id, name, occupation, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		char.ID,
		char.PlayerID,
		char.Identity.Name,
		char.Identity.Occupation,
		string(data),
		char.CreatedAt.UnixMilli(),
		char.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
		}
		return nil, errors.Wrap(err, "failed to create character")
	}

	return &CreateOutput{Character: char}, nil
}

func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, input.ID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get character")
	}

	char, err := decodeCharacter(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: char}, nil
}

func (r *sqliteRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Character.ID})
	if err != nil {
		return nil, err
	}

	char := r.stamp.prepareUpdate(input.Character, existing.Character)
	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character")
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE characters
		 SET player_id = ?, name = ?, occupation = ?, data = ?, updated_at = ?
		 WHERE id = ?`,
		char.PlayerID,
		char.Identity.Name,
		char.Identity.Occupation,
		string(data),
		char.UpdatedAt.UnixMilli(),
		char.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update character")
	}

	return &UpdateOutput{Character: char}, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *sqliteRepository) ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM characters WHERE player_id = ? ORDER BY created_at, id`,
		input.PlayerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer rows.Close()

	characters := []*coc.Character{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan character")
		}
		char, err := decodeCharacter(data)
		if err != nil {
			return nil, err
		}
		characters = append(characters, char)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &ListByPlayerIDOutput{Characters: characters}, nil
}

func decodeCharacter(data string) (*coc.Character, error) {
	var char coc.Character
	if err := json.Unmarshal([]byte(data), &char); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal character")
	}
	return &char, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
