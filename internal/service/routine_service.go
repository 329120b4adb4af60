package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/identity"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnauthenticated   = errors.New("user is not authenticated")
	ErrRoutineNotFound   = errors.New("routine not found")
	ErrUnsupportedInMode = errors.New("operation not supported in this backend mode")
)

// Mode selects where routines live. It is fixed when the service is built.
type Mode string

const (
	// ModeLocal keeps routines only in the local store; no user isolation.
	ModeLocal Mode = "local"
	// ModeRemote treats the remote store as the source of truth and the
	// local store as a read-through, write-through cache.
	ModeRemote Mode = "remote"
)

// RoutineService is the single entry point for routine persistence.
type RoutineService interface {
	Mode() Mode
	SaveRoutine(ctx context.Context, name string, exercises []domain.Exercise) (*domain.Routine, error)
	ListRoutines(ctx context.Context) ([]domain.Routine, error)
	UpdateRoutine(ctx context.Context, id, name string, exercises []domain.Exercise) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, id string) error
	RefreshCache(ctx context.Context) ([]domain.Routine, error)
}

type routineService struct {
	mode     Mode
	cache    repository.RoutineCache
	remote   repository.RemoteRoutineStore
	identity identity.Provider
	logger   *log.Logger
}

// NewRoutineService builds the routine service. A nil remote store selects
// ModeLocal, anything else ModeRemote. If logger is nil, a default logger
// writing to stderr is used.
func NewRoutineService(cache repository.RoutineCache, remote repository.RemoteRoutineStore, ident identity.Provider, logger *log.Logger) RoutineService {
	if logger == nil {
		logger = log.New(os.Stderr, "[routines] ", log.LstdFlags)
	}
	if ident == nil {
		ident = identity.FromContext{}
	}
	mode := ModeRemote
	if remote == nil {
		mode = ModeLocal
	}
	return &routineService{
		mode:     mode,
		cache:    cache,
		remote:   remote,
		identity: ident,
		logger:   logger,
	}
}

func (s *routineService) Mode() Mode {
	return s.mode
}

// SaveRoutine validates and stores a new routine. In remote mode the remote
// store is written first and gates existence; the cache write that follows
// is best effort.
func (s *routineService) SaveRoutine(ctx context.Context, name string, exercises []domain.Exercise) (*domain.Routine, error) {
	name, exercises, err := normalizeRoutine(name, exercises)
	if err != nil {
		return nil, err
	}

	if s.mode == ModeLocal {
		routine := &domain.Routine{Name: name, Exercises: exercises}
		if err := s.cache.Insert(ctx, routine); err != nil {
			s.logger.Printf("ERROR: Failed to save routine %q locally: %v", name, err)
			return nil, err
		}
		return routine, nil
	}

	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	id, createdAt, err := s.remote.CreateRoutine(ctx, userID, name, exercises)
	if err != nil {
		return nil, s.remoteError("create routine", err)
	}

	routine := &domain.Routine{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Exercises: exercises,
		CreatedAt: createdAt,
	}
	if err := s.cache.Upsert(ctx, *routine); err != nil {
		// The next cold-start ListRoutines hydrates it back.
		s.logger.Printf("WARN: Routine %s saved remotely but not cached: %v", id, err)
	}
	return routine, nil
}

// ListRoutines returns the user's routines, newest first. In remote mode a
// non-empty cache is returned as is; an empty cache is filled from the
// remote store once.
func (s *routineService) ListRoutines(ctx context.Context) ([]domain.Routine, error) {
	if s.mode == ModeLocal {
		return s.cache.List(ctx, "")
	}

	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.List(ctx, userID)
	if err != nil {
		s.logger.Printf("ERROR: Failed to read routine cache: %v", err)
		return nil, err
	}
	if len(cached) > 0 {
		return cached, nil
	}

	return s.hydrate(ctx, userID)
}

// UpdateRoutine overwrites the name and the whole exercise list of a local
// routine. Only available in ModeLocal.
func (s *routineService) UpdateRoutine(ctx context.Context, id, name string, exercises []domain.Exercise) (*domain.Routine, error) {
	if s.mode != ModeLocal {
		return nil, ErrUnsupportedInMode
	}
	name, exercises, err := normalizeRoutine(name, exercises)
	if err != nil {
		return nil, err
	}

	routine := domain.Routine{ID: id, Name: name, Exercises: exercises}
	if err := s.cache.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		s.logger.Printf("ERROR: Failed to update routine %s: %v", id, err)
		return nil, err
	}

	// The row keeps its creation time; read it back for the response.
	stored, err := s.cache.List(ctx, "")
	if err != nil {
		s.logger.Printf("WARN: Routine %s updated but could not be read back: %v", id, err)
		return &routine, nil
	}
	for _, r := range stored {
		if r.ID == id {
			return &r, nil
		}
	}
	return &routine, nil
}

// DeleteRoutine removes a routine from every store. Remote goes first so an
// interrupted delete leaves at most a stale cache row behind.
func (s *routineService) DeleteRoutine(ctx context.Context, id string) error {
	if s.mode == ModeLocal {
		return s.cache.Delete(ctx, "", id)
	}

	userID, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := s.remote.DeleteRoutine(ctx, userID, id); err != nil {
		return s.remoteError("delete routine", err)
	}
	if err := s.cache.Delete(ctx, userID, id); err != nil {
		s.logger.Printf("ERROR: Routine %s deleted remotely but still cached: %v", id, err)
		return err
	}
	return nil
}

// RefreshCache replaces the user's cached routines with the remote list.
// It also drops cached routines that were deleted from another device.
func (s *routineService) RefreshCache(ctx context.Context) ([]domain.Routine, error) {
	if s.mode != ModeRemote {
		return nil, ErrUnsupportedInMode
	}
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	routines, err := s.remote.ListRoutines(ctx, userID)
	if err != nil {
		return nil, s.remoteError("list routines", err)
	}
	if err := s.cache.Clear(ctx, userID); err != nil {
		s.logger.Printf("ERROR: Failed to clear routine cache: %v", err)
		return nil, err
	}
	return s.fill(ctx, routines), nil
}

func (s *routineService) hydrate(ctx context.Context, userID string) ([]domain.Routine, error) {
	routines, err := s.remote.ListRoutines(ctx, userID)
	if err != nil {
		return nil, s.remoteError("list routines", err)
	}
	s.logger.Printf("INFO: Filling routine cache for user %s with %d routines", userID, len(routines))
	return s.fill(ctx, routines), nil
}

func (s *routineService) fill(ctx context.Context, routines []domain.Routine) []domain.Routine {
	for _, r := range routines {
		if err := s.cache.Upsert(ctx, r); err != nil {
			s.logger.Printf("WARN: Failed to cache routine %s: %v", r.ID, err)
		}
	}
	sort.SliceStable(routines, func(i, j int) bool {
		return routines[i].CreatedAt.After(routines[j].CreatedAt)
	})
	if routines == nil {
		routines = []domain.Routine{}
	}
	return routines
}

func (s *routineService) currentUser(ctx context.Context) (string, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

func (s *routineService) remoteError(op string, err error) error {
	if errors.Is(err, repository.ErrUnauthenticated) {
		return ErrUnauthenticated
	}
	s.logger.Printf("ERROR: Remote %s failed: %v", op, err)
	return fmt.Errorf("%s: %w", op, err)
}

// normalizeRoutine trims the name, checks every precondition of a save and
// gives exercises without an id a fresh one.
func normalizeRoutine(name string, exercises []domain.Exercise) (string, []domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: routine name is required", ErrValidationFailed)
	}
	if len(exercises) == 0 {
		return "", nil, fmt.Errorf("%w: a routine needs at least one exercise", ErrValidationFailed)
	}

	out := make([]domain.Exercise, len(exercises))
	seen := make(map[string]bool, len(exercises))
	for i, ex := range exercises {
		ex.Name = strings.TrimSpace(ex.Name)
		if ex.Name == "" {
			return "", nil, fmt.Errorf("%w: exercise %d has no name", ErrValidationFailed, i+1)
		}
		if !ex.HasTargets() {
			return "", nil, fmt.Errorf("%w: exercise %q needs sets and reps", ErrValidationFailed, ex.Name)
		}
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		if seen[ex.ID] {
			return "", nil, fmt.Errorf("%w: duplicate exercise id %q", ErrValidationFailed, ex.ID)
		}
		seen[ex.ID] = true
		out[i] = ex
	}
	return name, out, nil
}
