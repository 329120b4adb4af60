package sqlite

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// HistoryRepository records completed workouts as a
// workout_history → performed_exercises → performed_sets tree.
type HistoryRepository struct {
	store *Store
	now   func() time.Time
}

// NewHistoryRepository creates a HistoryRepository on top of store.
func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store, now: time.Now}
}

var _ repository.WorkoutHistoryRepository = (*HistoryRepository)(nil)

// RecordCompletedWorkout inserts the whole session in a single transaction.
// Exercises and sets keep their input order; set numbers are stored as given.
func (r *HistoryRepository) RecordCompletedWorkout(ctx context.Context, routineName string, durationSeconds int64, exercises []domain.CompletedExercise) (int64, error) {
	if strings.TrimSpace(routineName) == "" {
		routineName = domain.FreeWorkoutName
	}

	var historyID int64
	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO workout_history (routine_name, completed_at, duration_seconds) VALUES (?, ?, ?)`,
			routineName, r.now().Unix(), durationSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert workout history: %w", err)
		}
		if historyID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("get workout history id: %w", err)
		}

		for _, ex := range exercises {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO performed_exercises (workout_history_id, exercise_name, notes) VALUES (?, ?, ?)`,
				historyID, ex.Name, ex.Notes,
			)
			if err != nil {
				return fmt.Errorf("insert performed exercise %q: %w", ex.Name, err)
			}
			exerciseID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("get performed exercise id: %w", err)
			}

			for _, set := range ex.Sets {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO performed_sets (performed_exercise_id, set_number, weight_kg, reps) VALUES (?, ?, ?, ?)`,
					exerciseID, set.SetNumber, set.WeightKg, set.Reps,
				); err != nil {
					return fmt.Errorf("insert set %d of %q: %w", set.SetNumber, ex.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record workout: %w: %w", repository.ErrHistoryWriteFailed, err)
	}
	return historyID, nil
}

// GetWorkoutHistory returns every entry, most recent first, without children.
func (r *HistoryRepository) GetWorkoutHistory(ctx context.Context) ([]domain.WorkoutHistoryEntry, error) {
	rows, err := r.store.Query(ctx,
		`SELECT id, routine_name, completed_at, duration_seconds
		 FROM workout_history ORDER BY completed_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.WorkoutHistoryEntry{}
	for rows.Next() {
		var (
			e    domain.WorkoutHistoryEntry
			name sql.NullString
		)
		if err := rows.Scan(&e.ID, &name, &e.CompletedAt, &e.DurationSeconds); err != nil {
			return nil, queryFailed("scan workout history", err)
		}
		e.RoutineName = name.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list workout history", err)
	}
	return entries, nil
}

// GetWorkoutDetail loads one entry with its exercises and sets.
func (r *HistoryRepository) GetWorkoutDetail(ctx context.Context, id int64) (*domain.WorkoutDetail, error) {
	rows, err := r.store.Query(ctx,
		`SELECT id, routine_name, completed_at, duration_seconds FROM workout_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.WorkoutDetail{}
	found := false
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&detail.ID, &name, &detail.CompletedAt, &detail.DurationSeconds); err != nil {
			rows.Close()
			return nil, queryFailed("scan workout history", err)
		}
		detail.RoutineName = name.String
		found = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, queryFailed("get workout history", err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	detail.Exercises, err = r.loadExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *HistoryRepository) loadExercises(ctx context.Context, historyID int64) ([]domain.PerformedExercise, error) {
	rows, err := r.store.Query(ctx,
		`SELECT pe.id, pe.exercise_name, pe.notes, ps.id, ps.set_number, ps.weight_kg, ps.reps
		 FROM performed_exercises pe
		 LEFT JOIN performed_sets ps ON ps.performed_exercise_id = pe.id
		 WHERE pe.workout_history_id = ?
		 ORDER BY pe.id, ps.set_number, ps.id`, historyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.PerformedExercise{}
	for rows.Next() {
		var (
			exID                int64
			exName              string
			notes, weight, reps sql.NullString
			setID, setNumber    sql.NullInt64
		)
		if err := rows.Scan(&exID, &exName, &notes, &setID, &setNumber, &weight, &reps); err != nil {
			return nil, queryFailed("scan performed exercise", err)
		}
		if n := len(exercises); n == 0 || exercises[n-1].ID != exID {
			exercises = append(exercises, domain.PerformedExercise{
				ID:               exID,
				WorkoutHistoryID: historyID,
				ExerciseName:     exName,
				Notes:            notes.String,
			})
		}
		if setID.Valid {
			last := &exercises[len(exercises)-1]
			last.Sets = append(last.Sets, domain.PerformedSet{
				ID:                  setID.Int64,
				PerformedExerciseID: exID,
				SetNumber:           int(setNumber.Int64),
				WeightKg:            weight.String,
				Reps:                reps.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list performed exercises", err)
	}
	return exercises, nil
}

// DeleteWorkout removes an entry; its exercises and sets go with it through
// the foreign key cascade. Unknown ids are not an error.
func (r *HistoryRepository) DeleteWorkout(ctx context.Context, id int64) error {
	_, err := r.store.Exec(ctx, `DELETE FROM workout_history WHERE id = ?`, id)
	return err
}
