package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"context"
	"errors"
	"fmt"
	"testing"
)

func newHistoryService(t *testing.T) (HistoryService, *sqlite.Store) {
	t.Helper()
	store := newStore(t)
	return NewHistoryService(sqlite.NewHistoryRepository(store), discard), store
}

func benchSession() []domain.CompletedExercise {
	return []domain.CompletedExercise{{
		Name: "Supino",
		Sets: []domain.CompletedSet{
			{SetNumber: 1, WeightKg: "60", Reps: "10"},
			{SetNumber: 2, WeightKg: "60", Reps: "8"},
		},
	}}
}

func TestRecordCompletedWorkout(t *testing.T) {
	svc, _ := newHistoryService(t)
	ctx := context.Background()

	entry, err := svc.RecordCompletedWorkout(ctx, "Peito", 1800, benchSession())
	if err != nil {
		t.Fatalf("RecordCompletedWorkout: %v", err)
	}
	if entry.ID == 0 || entry.RoutineName != "Peito" || entry.DurationSeconds != 1800 || entry.CompletedAt == 0 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	detail, err := svc.GetWorkoutDetail(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetWorkoutDetail: %v", err)
	}
	if len(detail.Exercises) != 1 || len(detail.Exercises[0].Sets) != 2 {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if s := detail.Exercises[0].Sets[1]; s.SetNumber != 2 || s.WeightKg != "60" || s.Reps != "8" {
		t.Fatalf("unexpected second set %+v", s)
	}
}

func TestRecordCompletedWorkoutFreeSession(t *testing.T) {
	svc, _ := newHistoryService(t)

	entry, err := svc.RecordCompletedWorkout(context.Background(), "  ", 0, nil)
	if err != nil {
		t.Fatalf("RecordCompletedWorkout: %v", err)
	}
	if entry.RoutineName != domain.FreeWorkoutName {
		t.Fatalf("expected placeholder name, got %q", entry.RoutineName)
	}
}

func TestRecordCompletedWorkoutValidation(t *testing.T) {
	tests := []struct {
		name      string
		duration  int64
		exercises []domain.CompletedExercise
	}{
		{"negative duration", -1, benchSession()},
		{"unnamed exercise", 60, []domain.CompletedExercise{{Name: " "}}},
		{"set numbers start at zero", 60, []domain.CompletedExercise{{
			Name: "Supino", Sets: []domain.CompletedSet{{SetNumber: 0}},
		}}},
		{"gap in set numbers", 60, []domain.CompletedExercise{{
			Name: "Supino", Sets: []domain.CompletedSet{{SetNumber: 1}, {SetNumber: 3}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newHistoryService(t)
			ctx := context.Background()

			if _, err := svc.RecordCompletedWorkout(ctx, "Peito", tt.duration, tt.exercises); !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			entries, err := svc.GetWorkoutHistory(ctx)
			if err != nil {
				t.Fatalf("GetWorkoutHistory: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("expected nothing written, got %d entries", len(entries))
			}
		})
	}
}

func TestRecordCompletedWorkoutFailureWritesNothing(t *testing.T) {
	svc, store := newHistoryService(t)
	ctx := context.Background()

	if _, err := store.Exec(ctx, `CREATE TRIGGER reject_heavy BEFORE INSERT ON performed_sets
		WHEN NEW.weight_kg = '999' BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	session := benchSession()
	session[0].Sets[1].WeightKg = "999"
	_, err := svc.RecordCompletedWorkout(ctx, "Peito", 1800, session)
	if !errors.Is(err, repository.ErrHistoryWriteFailed) {
		t.Fatalf("expected ErrHistoryWriteFailed, got %v", err)
	}

	entries, err := svc.GetWorkoutHistory(ctx)
	if err != nil {
		t.Fatalf("GetWorkoutHistory: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected rollback, got %d entries", len(entries))
	}
}

func TestGetWorkoutDetailNotFound(t *testing.T) {
	svc, _ := newHistoryService(t)
	if _, err := svc.GetWorkoutDetail(context.Background(), 404); !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound, got %v", err)
	}
}

func TestDeleteWorkout(t *testing.T) {
	svc, _ := newHistoryService(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		entry, err := svc.RecordCompletedWorkout(ctx, fmt.Sprintf("Treino %d", i), 60, benchSession())
		if err != nil {
			t.Fatalf("RecordCompletedWorkout: %v", err)
		}
		ids = append(ids, entry.ID)
	}

	if err := svc.DeleteWorkout(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteWorkout: %v", err)
	}
	if err := svc.DeleteWorkout(ctx, ids[1]); err != nil {
		t.Fatalf("second DeleteWorkout: %v", err)
	}

	entries, err := svc.GetWorkoutHistory(ctx)
	if err != nil {
		t.Fatalf("GetWorkoutHistory: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != ids[2] || entries[1].ID != ids[0] {
		t.Fatalf("unexpected history after delete: %+v", entries)
	}
}
