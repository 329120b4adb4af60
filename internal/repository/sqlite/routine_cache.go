package sqlite

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RoutineCache implements repository.RoutineCache on the routines table.
// The exercise list is stored as one JSON blob in the exercises column.
type RoutineCache struct {
	store *Store
}

// NewRoutineCache creates a RoutineCache on top of store.
func NewRoutineCache(store *Store) *RoutineCache {
	return &RoutineCache{store: store}
}

var _ repository.RoutineCache = (*RoutineCache)(nil)

func (c *RoutineCache) Insert(ctx context.Context, routine *domain.Routine) error {
	blob, err := encodeExercises(routine.Exercises)
	if err != nil {
		return err
	}
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = time.Now().UTC()
	}

	res, err := c.store.Exec(ctx,
		`INSERT INTO routines (user_id, name, exercises, createdAt) VALUES (?, ?, ?, ?)`,
		routine.UserID, routine.Name, blob, routine.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return queryFailed("get routine id", err)
	}
	routine.ID = strconv.FormatInt(id, 10)
	return nil
}

func (c *RoutineCache) Upsert(ctx context.Context, routine domain.Routine) error {
	if routine.ID == "" {
		return fmt.Errorf("upsert routine: remote id is required")
	}
	blob, err := encodeExercises(routine.Exercises)
	if err != nil {
		return err
	}
	createdAt := routine.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = c.store.Exec(ctx,
		`INSERT INTO routines (remote_id, user_id, name, exercises, createdAt) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(remote_id) DO UPDATE SET
		 user_id = excluded.user_id, name = excluded.name,
		 exercises = excluded.exercises, createdAt = excluded.createdAt`,
		routine.ID, routine.UserID, routine.Name, blob, createdAt.UnixMilli(),
	)
	return err
}

func (c *RoutineCache) List(ctx context.Context, userID string) ([]domain.Routine, error) {
	rows, err := c.store.Query(ctx,
		`SELECT id, remote_id, user_id, name, exercises, createdAt
		 FROM routines WHERE user_id = ? ORDER BY createdAt DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := []domain.Routine{}
	for rows.Next() {
		var (
			localID   int64
			remoteID  sql.NullString
			blob      string
			createdAt sql.NullInt64
			r         domain.Routine
		)
		if err := rows.Scan(&localID, &remoteID, &r.UserID, &r.Name, &blob, &createdAt); err != nil {
			return nil, queryFailed("scan routine", err)
		}
		r.ID = strconv.FormatInt(localID, 10)
		if remoteID.Valid {
			r.ID = remoteID.String
		}
		if createdAt.Valid {
			r.CreatedAt = time.UnixMilli(createdAt.Int64).UTC()
		}
		if r.Exercises, err = decodeExercises(blob); err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list routines", err)
	}
	return routines, nil
}

func (c *RoutineCache) Update(ctx context.Context, routine domain.Routine) error {
	localID, err := strconv.ParseInt(routine.ID, 10, 64)
	if err != nil {
		return repository.ErrNotFound
	}
	blob, err := encodeExercises(routine.Exercises)
	if err != nil {
		return err
	}

	res, err := c.store.Exec(ctx,
		`UPDATE routines SET name = ?, exercises = ?
		 WHERE id = ? AND user_id = ? AND remote_id IS NULL`,
		routine.Name, blob, localID, routine.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return queryFailed("rows affected", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (c *RoutineCache) Delete(ctx context.Context, userID, id string) error {
	// Rows surface either their remote id or their local integer id.
	var localID any
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		localID = n
	}
	_, err := c.store.Exec(ctx,
		`DELETE FROM routines WHERE user_id = ? AND (remote_id = ? OR (remote_id IS NULL AND id = ?))`,
		userID, id, localID,
	)
	return err
}

func (c *RoutineCache) Clear(ctx context.Context, userID string) error {
	_, err := c.store.Exec(ctx, `DELETE FROM routines WHERE user_id = ?`, userID)
	return err
}

func encodeExercises(exercises []domain.Exercise) (string, error) {
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	b, err := json.Marshal(exercises)
	if err != nil {
		return "", fmt.Errorf("encode exercises: %w", err)
	}
	return string(b), nil
}

func decodeExercises(blob string) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	if blob == "" {
		return exercises, nil
	}
	if err := json.Unmarshal([]byte(blob), &exercises); err != nil {
		return nil, fmt.Errorf("decode exercises: %w: %w", repository.ErrQueryFailed, err)
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}
