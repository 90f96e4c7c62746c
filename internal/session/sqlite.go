package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/prefdash/internal/dashboard"

	_ "modernc.org/sqlite"
)

// SQLite stores states as JSON rows in a selections table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "data/sessions.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("session store: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("session store: schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS selections (
    session TEXT NOT NULL,
    pipeline TEXT NOT NULL,
    state TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (session, pipeline)
);`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLite) Load(ctx context.Context, id string, pipeline dashboard.PipelineName) (dashboard.SelectionState, bool, error) {
	if err := ValidateID(id); err != nil {
		return dashboard.SelectionState{}, false, err
	}
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM selections WHERE session = ? AND pipeline = ?", id, string(pipeline),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.SelectionState{}, false, nil
	}
	if err != nil {
		return dashboard.SelectionState{}, false, fmt.Errorf("load session %s: %w", id, err)
	}
	var state dashboard.SelectionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return dashboard.SelectionState{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	state.Pipeline = pipeline
	return state, true, nil
}

func (s *SQLite) Save(ctx context.Context, id string, state dashboard.SelectionState) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO selections (session, pipeline, state, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(session, pipeline) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, string(state.Pipeline), string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
