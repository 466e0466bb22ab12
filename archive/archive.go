// Package archive records finished simulation runs in SQLite.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agi_race/story"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrDisabled is returned by a nil archive.
var ErrDisabled = errors.New("archive disabled")

// Run is one finished simulation.
type Run struct {
	ID         string          `json:"id" db:"id"`
	SessionID  string          `json:"sessionId" db:"session_id"`
	Outcome    string          `json:"outcome" db:"outcome"`
	Turns      int             `json:"turns" db:"turns"`
	Resources  story.Resources `json:"resources" db:"-"`
	FinishedAt time.Time       `json:"finishedAt" db:"finished_at"`
}

type runRow struct {
	ID            string    `db:"id"`
	SessionID     string    `db:"session_id"`
	Outcome       string    `db:"outcome"`
	Turns         int       `db:"turns"`
	ResourcesJSON string    `db:"resources_json"`
	FinishedAt    time.Time `db:"finished_at"`
}

// Archive wraps a SQLite connection. A nil *Archive is valid and disabled.
type Archive struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: intact.
	conn.SetMaxOpenConns(1)

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.conn.Close()
}

// Enabled reports whether runs are recorded.
func (a *Archive) Enabled() bool { return a != nil }

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		turns INTEGER NOT NULL,
		resources_json TEXT NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// Record stores a finished run built from the final state and history.
func (a *Archive) Record(ctx context.Context, sessionID string, final story.GameState, history []story.HistoryEntry) (Run, error) {
	if a == nil {
		return Run{}, ErrDisabled
	}
	run := Run{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Outcome:    final.OutcomeText,
		Turns:      len(history),
		Resources:  final.Resources,
		FinishedAt: time.Now().UTC(),
	}
	res, err := json.Marshal(run.Resources)
	if err != nil {
		return Run{}, fmt.Errorf("marshal resources: %w", err)
	}
	_, err = a.conn.NamedExecContext(ctx, `
		INSERT INTO runs (id, session_id, outcome, turns, resources_json, finished_at)
		VALUES (:id, :session_id, :outcome, :turns, :resources_json, :finished_at)`,
		runRow{
			ID:            run.ID,
			SessionID:     run.SessionID,
			Outcome:       run.Outcome,
			Turns:         run.Turns,
			ResourcesJSON: string(res),
			FinishedAt:    run.FinishedAt,
		})
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Run, error) {
	if a == nil {
		return nil, ErrDisabled
	}
	var rows []runRow
	if err := a.conn.SelectContext(ctx, &rows, `
		SELECT id, session_id, outcome, turns, resources_json, finished_at
		FROM runs ORDER BY finished_at DESC, id LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, r := range rows {
		run := Run{
			ID:         r.ID,
			SessionID:  r.SessionID,
			Outcome:    r.Outcome,
			Turns:      r.Turns,
			FinishedAt: r.FinishedAt,
		}
		if err := json.Unmarshal([]byte(r.ResourcesJSON), &run.Resources); err != nil {
			return nil, fmt.Errorf("unmarshal resources for run %s: %w", r.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
