package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// slotTaken matches schedules at the same location whose slot contains the new start,
// or which start inside the new slot. Placeholders: location, excluded id, start, slot, start, end, start.
const slotTaken = `
	SELECT 1 FROM schedules other
	WHERE other.location = ?
	AND other.id <> ?
	AND (
		(other.date_time <= ? AND other.date_time + ? > ?)
		OR (other.date_time < ? AND other.date_time >= ?)
	)`

func slotArgs(location string, exclude int64, start, slot float64) []any {
	return []any{location, exclude, start, slot, start, start + slot, start}
}

// withSlotLock runs fn in a transaction holding the dialect's lock on location, if it has one.
func (s *BaseStore) withSlotLock(ctx context.Context, location string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schedule transaction: %w", err)
	}
	defer tx.Rollback()

	if s.SlotLock != "" {
		if _, err := tx.ExecContext(ctx, s.Converter(s.SlotLock), location); err != nil {
			return fmt.Errorf("failed to lock location %q: %w", location, err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule transaction: %w", err)
	}
	return nil
}

// InsertScheduleIfFree inserts sched in one statement unless its slot is taken.
// It returns nil, nil when another schedule occupies the slot.
// Writers of the same location are serialized where the dialect sets SlotLock.
func (s *BaseStore) InsertScheduleIfFree(ctx context.Context, sched models.Schedule, slotSeconds float64) (*models.Schedule, error) {
	query := s.Converter(`
		INSERT INTO schedules (team_id, round, date_time, location, note)
		SELECT
			CAST(? AS BIGINT),
			CAST(? AS TEXT),
			CAST(? AS DOUBLE PRECISION),
			CAST(? AS TEXT),
			CAST(? AS TEXT)
		WHERE NOT EXISTS (` + slotTaken + `)
		RETURNING id
	`)

	args := []any{sched.TeamID, sched.Round, sched.DateTime, sched.Location, sched.Note}
	args = append(args, slotArgs(sched.Location, 0, sched.DateTime, slotSeconds)...)

	var id int64
	err := s.withSlotLock(ctx, sched.Location, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &id, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return s.executor().mapError(SchedulesTable, err, "create")
		}
		return nil
	})
	if err != nil || id == 0 {
		return nil, err
	}

	return s.Schedules.Get(ctx, id)
}

// UpdateScheduleIfFree applies fields to schedule id unless the resulting slot at location is taken.
// The caller must have checked that the schedule exists; a false result means the slot is taken.
func (s *BaseStore) UpdateScheduleIfFree(ctx context.Context, id int64, fields Fields, location string, start, slotSeconds float64) (*models.Schedule, bool, error) {
	columns, args, err := s.Schedules.split(fields)
	if err != nil {
		return nil, false, err
	}

	assignments := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		assignments = append(assignments, c+" = ?")
	}
	assignments = append(assignments, "updated_at = ?")
	args = append(args, now(), id)
	args = append(args, slotArgs(location, id, start, slotSeconds)...)

	query := s.Converter(fmt.Sprintf(`
		UPDATE schedules SET %s
		WHERE id = ?
		AND NOT EXISTS (%s)
	`, strings.Join(assignments, ", "), slotTaken))

	var n int64
	err = s.withSlotLock(ctx, location, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return s.executor().mapError(SchedulesTable, err, "update")
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to update schedule %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}

	sched, err := s.Schedules.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return sched, true, nil
}
