package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// HistoryService records finished workouts and reads them back.
type HistoryService interface {
	RecordCompletedWorkout(ctx context.Context, routineName string, durationSeconds int64, exercises []domain.CompletedExercise) (*domain.WorkoutHistoryEntry, error)
	GetWorkoutHistory(ctx context.Context) ([]domain.WorkoutHistoryEntry, error)
	GetWorkoutDetail(ctx context.Context, id int64) (*domain.WorkoutDetail, error)
	DeleteWorkout(ctx context.Context, id int64) error
}

type historyService struct {
	repo   repository.WorkoutHistoryRepository
	logger *log.Logger
}

// NewHistoryService creates a HistoryService. A nil logger writes to stderr.
func NewHistoryService(repo repository.WorkoutHistoryRepository, logger *log.Logger) HistoryService {
	if logger == nil {
		logger = log.New(os.Stderr, "[history] ", log.LstdFlags)
	}
	return &historyService{repo: repo, logger: logger}
}

// RecordCompletedWorkout stores the session or nothing at all. On failure
// the caller keeps its in-progress state and may retry.
func (s *historyService) RecordCompletedWorkout(ctx context.Context, routineName string, durationSeconds int64, exercises []domain.CompletedExercise) (*domain.WorkoutHistoryEntry, error) {
	if err := validateSession(durationSeconds, exercises); err != nil {
		return nil, err
	}

	id, err := s.repo.RecordCompletedWorkout(ctx, routineName, durationSeconds, exercises)
	if err != nil {
		s.logger.Printf("ERROR: Failed to record workout %q: %v", routineName, err)
		return nil, err
	}

	detail, err := s.repo.GetWorkoutDetail(ctx, id)
	if err != nil {
		s.logger.Printf("WARN: Workout %d recorded but could not be read back: %v", id, err)
		name := strings.TrimSpace(routineName)
		if name == "" {
			name = domain.FreeWorkoutName
		}
		return &domain.WorkoutHistoryEntry{ID: id, RoutineName: name, DurationSeconds: durationSeconds}, nil
	}
	return &detail.WorkoutHistoryEntry, nil
}

func (s *historyService) GetWorkoutHistory(ctx context.Context) ([]domain.WorkoutHistoryEntry, error) {
	entries, err := s.repo.GetWorkoutHistory(ctx)
	if err != nil {
		s.logger.Printf("ERROR: Failed to load workout history: %v", err)
		return nil, err
	}
	return entries, nil
}

func (s *historyService) GetWorkoutDetail(ctx context.Context, id int64) (*domain.WorkoutDetail, error) {
	detail, err := s.repo.GetWorkoutDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		s.logger.Printf("ERROR: Failed to load workout %d: %v", id, err)
		return nil, err
	}
	return detail, nil
}

func (s *historyService) DeleteWorkout(ctx context.Context, id int64) error {
	if err := s.repo.DeleteWorkout(ctx, id); err != nil {
		s.logger.Printf("ERROR: Failed to delete workout %d: %v", id, err)
		return err
	}
	return nil
}

func validateSession(durationSeconds int64, exercises []domain.CompletedExercise) error {
	if durationSeconds < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrValidationFailed)
	}
	for i, ex := range exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrValidationFailed, i+1)
		}
		for j, set := range ex.Sets {
			if set.SetNumber != j+1 {
				return fmt.Errorf("%w: exercise %q set %d is numbered %d", ErrValidationFailed, ex.Name, j+1, set.SetNumber)
			}
		}
	}
	return nil
}
