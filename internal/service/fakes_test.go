package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var discard = log.New(io.Discard, "", 0)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

// fakeRemote is an in-memory RemoteRoutineStore that counts calls.
type fakeRemote struct {
	mu       sync.Mutex
	routines []domain.Routine
	clock    time.Time
	seq      int

	createCalls, listCalls, deleteCalls int
	createErr, listErr, deleteErr       error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{clock: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeRemote) CreateRoutine(_ context.Context, userID, name string, exercises []domain.Exercise) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", time.Time{}, f.createErr
	}
	if userID == "" {
		return "", time.Time{}, repository.ErrUnauthenticated
	}
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	r := domain.Routine{
		ID:        fmt.Sprintf("doc%04d", f.seq),
		UserID:    userID,
		Name:      name,
		Exercises: append([]domain.Exercise(nil), exercises...),
		CreatedAt: f.clock,
	}
	f.routines = append(f.routines, r)
	return r.ID, r.CreatedAt, nil
}

func (f *fakeRemote) ListRoutines(_ context.Context, userID string) ([]domain.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Routine
	for _, r := range f.routines {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemote) DeleteRoutine(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.routines[:0]
	for _, r := range f.routines {
		if r.ID == id && r.UserID == userID {
			continue
		}
		kept = append(kept, r)
	}
	f.routines = kept
	return nil
}

// brokenUpsertCache fails every Upsert and delegates the rest.
type brokenUpsertCache struct {
	repository.RoutineCache
}

func (brokenUpsertCache) Upsert(context.Context, domain.Routine) error {
	return fmt.Errorf("upsert: %w: disk I/O error", repository.ErrQueryFailed)
}

// fakeFiles records uploads in memory.
type fakeFiles struct {
	objects    map[string][]byte
	putErr     error
	presignErr error
}

func (f *fakeFiles) PutObject(_ context.Context, key, _ string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

func (f *fakeFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("no such object")
	}
	return "https://files.example.com/" + key + "?signed=1", nil
}

func (f *fakeFiles) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}
