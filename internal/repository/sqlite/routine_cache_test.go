package sqlite_test

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func legDay() []domain.Exercise {
	return []domain.Exercise{
		{ID: "1", Name: "Agachamento", Sets: "4", Reps: "8-12"},
		{ID: "2", Name: "Leg Press", Sets: "3", Reps: "até a falha", MuscleSecondary: []string{"glúteos"}},
	}
}

func TestRoutineCacheInsertAndList(t *testing.T) {
	cache := sqlite.NewRoutineCache(newTestStore(t))
	ctx := context.Background()

	older := domain.Routine{Name: "Perna", Exercises: legDay(), CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.Routine{Name: "Peito", Exercises: []domain.Exercise{{ID: "1", Name: "Supino Reto", Sets: "3", Reps: "10"}}}
	for _, r := range []*domain.Routine{&older, &newer} {
		if err := cache.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if r.ID == "" {
			t.Fatal("expected an assigned id")
		}
	}

	got, err := cache.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 routines, got %d", len(got))
	}
	if got[0].Name != "Peito" || got[1].Name != "Perna" {
		t.Fatalf("expected newest first, got %q then %q", got[0].Name, got[1].Name)
	}
	if !reflect.DeepEqual(got[1].Exercises, legDay()) {
		t.Fatalf("exercises did not round-trip: %+v", got[1].Exercises)
	}
}

func TestRoutineCacheUpsertReplacesByRemoteID(t *testing.T) {
	cache := sqlite.NewRoutineCache(newTestStore(t))
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	r := domain.Routine{ID: "65f0c0ffee", UserID: "u1", Name: "Perna", Exercises: legDay(), CreatedAt: created}
	if err := cache.Upsert(ctx, r); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	r.Name = "Perna B"
	if err := cache.Upsert(ctx, r); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := cache.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 routine after upsert, got %d", len(got))
	}
	if got[0].ID != "65f0c0ffee" || got[0].Name != "Perna B" {
		t.Fatalf("unexpected routine %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(created) {
		t.Fatalf("createdAt = %v, want %v", got[0].CreatedAt, created)
	}

	other, err := cache.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no routines for another user, got %d", len(other))
	}
}

func TestRoutineCacheUpdate(t *testing.T) {
	cache := sqlite.NewRoutineCache(newTestStore(t))
	ctx := context.Background()

	r := domain.Routine{Name: "Perna", Exercises: legDay()}
	if err := cache.Insert(ctx, &r); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	r.Name = "Perna Pesada"
	r.Exercises = r.Exercises[:1]
	if err := cache.Update(ctx, r); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := cache.List(ctx, "")
	if got[0].Name != "Perna Pesada" || len(got[0].Exercises) != 1 {
		t.Fatalf("update not applied: %+v", got[0])
	}

	if err := cache.Update(ctx, domain.Routine{ID: "999", Name: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if err := cache.Update(ctx, domain.Routine{ID: "not-a-number", Name: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-numeric id, got %v", err)
	}
}

func TestRoutineCacheDeleteIsIdempotent(t *testing.T) {
	cache := sqlite.NewRoutineCache(newTestStore(t))
	ctx := context.Background()

	local := domain.Routine{Name: "Local", Exercises: legDay()}
	if err := cache.Insert(ctx, &local); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := cache.Upsert(ctx, domain.Routine{ID: "abc123", Name: "Remote", Exercises: legDay()}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := cache.Delete(ctx, "", local.ID); err != nil {
			t.Fatalf("Delete local #%d: %v", i+1, err)
		}
		if err := cache.Delete(ctx, "", "abc123"); err != nil {
			t.Fatalf("Delete remote #%d: %v", i+1, err)
		}
	}

	got, _ := cache.List(ctx, "")
	if len(got) != 0 {
		t.Fatalf("expected empty cache, got %+v", got)
	}
}

func TestRoutineCacheClear(t *testing.T) {
	cache := sqlite.NewRoutineCache(newTestStore(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := cache.Upsert(ctx, domain.Routine{ID: id, UserID: "u1", Name: id, Exercises: legDay()}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if err := cache.Upsert(ctx, domain.Routine{ID: "c", UserID: "u2", Name: "c", Exercises: legDay()}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := cache.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := cache.List(ctx, "u1"); len(got) != 0 {
		t.Fatalf("expected u1 cache cleared, got %d", len(got))
	}
	if got, _ := cache.List(ctx, "u2"); len(got) != 1 {
		t.Fatalf("expected u2 cache untouched, got %d", len(got))
	}
}
