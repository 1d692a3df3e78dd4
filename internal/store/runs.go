package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/model"
)

// Schema creates the tables used by RunRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS timetable_runs (
    id TEXT PRIMARY KEY,
    group_name TEXT NOT NULL,
    seed BIGINT NOT NULL,
    placement_count INTEGER NOT NULL,
    unscheduled_count INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS timetable_placements (
    run_id TEXT NOT NULL REFERENCES timetable_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    sheet TEXT NOT NULL,
    day TEXT NOT NULL,
    slot TEXT NOT NULL,
    course_code TEXT NOT NULL,
    display TEXT NOT NULL,
    faculty TEXT NOT NULL,
    room TEXT NOT NULL,
    session_type TEXT NOT NULL,
    PRIMARY KEY (run_id, position)
);
CREATE TABLE IF NOT EXISTS timetable_unscheduled (
    run_id TEXT NOT NULL REFERENCES timetable_runs(id) ON DELETE CASCADE,
    sheet TEXT NOT NULL,
    course_code TEXT NOT NULL,
    course_title TEXT NOT NULL,
    faculty TEXT NOT NULL,
    session_type TEXT NOT NULL,
    remaining_hours DOUBLE PRECISION NOT NULL,
    semester_half TEXT NOT NULL
);`

// Run is the stored summary of one generated timetable.
type Run struct {
	ID               string    `db:"id" json:"id"`
	Group            string    `db:"group_name" json:"group"`
	Seed             int64     `db:"seed" json:"seed"`
	PlacementCount   int       `db:"placement_count" json:"placementCount"`
	UnscheduledCount int       `db:"unscheduled_count" json:"unscheduledCount"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

type placementRow struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	model.Placement
}

type unscheduledRow struct {
	RunID string `db:"run_id"`
	model.Unscheduled
}

// RunRepository persists generated timetables.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Migrate creates missing tables.
func (r *RunRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate timetable schema: %w", err)
	}
	return nil
}

// Save stores the result with all of its placements and unscheduled records
// in one transaction.
func (r *RunRepository) Save(ctx context.Context, res *scheduler.Result) (*Run, error) {
	placements := res.Placements()
	unscheduled := res.Unscheduled()
	run := &Run{
		ID:               uuid.NewString(),
		Group:            res.Group,
		Seed:             int64(res.Seed),
		PlacementCount:   len(placements),
		UnscheduledCount: len(unscheduled),
		CreatedAt:        time.Now().UTC(),
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertRun = `INSERT INTO timetable_runs (id, group_name, seed, placement_count, unscheduled_count, created_at)
VALUES (:id, :group_name, :seed, :placement_count, :unscheduled_count, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, insertRun, run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	const insertPlacement = `INSERT INTO timetable_placements (run_id, position, sheet, day, slot, course_code, display, faculty, room, session_type)
VALUES (:run_id, :position, :sheet, :day, :slot, :course_code, :display, :faculty, :room, :session_type)`
	for i, p := range placements {
		row := placementRow{RunID: run.ID, Position: i, Placement: p}
		if _, err := sqlx.NamedExecContext(ctx, tx, insertPlacement, row); err != nil {
			return nil, fmt.Errorf("insert placement: %w", err)
		}
	}

	const insertUnscheduled = `INSERT INTO timetable_unscheduled (run_id, sheet, course_code, course_title, faculty, session_type, remaining_hours, semester_half)
VALUES (:run_id, :sheet, :course_code, :course_title, :faculty, :session_type, :remaining_hours, :semester_half)`
	for _, u := range unscheduled {
		row := unscheduledRow{RunID: run.ID, Unscheduled: u}
		if _, err := sqlx.NamedExecContext(ctx, tx, insertUnscheduled, row); err != nil {
			return nil, fmt.Errorf("insert unscheduled: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, group_name, seed, placement_count, unscheduled_count, created_at
FROM timetable_runs ORDER BY created_at DESC LIMIT $1`
	runs := []Run{}
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	const query = `SELECT id, group_name, seed, placement_count, unscheduled_count, created_at
FROM timetable_runs WHERE id = $1`
	var run Run
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tterrors.Clone(tterrors.ErrNotFound, "timetable run not found")
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// Placements returns the stored placements of a run in generation order.
func (r *RunRepository) Placements(ctx context.Context, runID string) ([]model.Placement, error) {
	const query = `SELECT sheet, day, slot, course_code, display, faculty, room, session_type
FROM timetable_placements WHERE run_id = $1 ORDER BY position ASC`
	placements := []model.Placement{}
	if err := r.db.SelectContext(ctx, &placements, query, runID); err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	return placements, nil
}

// Delete removes a run together with its placements and unscheduled records.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return tterrors.Clone(tterrors.ErrNotFound, "timetable run not found")
	}
	return nil
}
