package repository

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("user with this email already exists")

	// ErrUnauthenticated is returned by user-scoped remote operations called
	// without a user id.
	ErrUnauthenticated = RepositoryError("no authenticated user")

	// ErrStorageUnavailable means the local database file could not be opened.
	ErrStorageUnavailable = RepositoryError("local storage unavailable")

	// ErrQueryFailed wraps any local engine error; the driver message is kept
	// in the wrapped chain.
	ErrQueryFailed = RepositoryError("local query failed")

	// ErrHistoryWriteFailed means a workout recording was rolled back as a whole.
	ErrHistoryWriteFailed = RepositoryError("workout history write failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// RemoteRoutineStore is the authoritative document store for routines.
// It holds no cache and does not retry.
type RemoteRoutineStore interface {
	// CreateRoutine stores a new routine and returns the server-assigned id
	// and creation time.
	CreateRoutine(ctx context.Context, userID, name string, exercises []domain.Exercise) (string, time.Time, error)
	// ListRoutines returns every routine owned by userID.
	ListRoutines(ctx context.Context, userID string) ([]domain.Routine, error)
	// DeleteRoutine removes a routine owned by userID. Unknown ids are not
	// an error.
	DeleteRoutine(ctx context.Context, userID, id string) error
}

// RoutineCache is the local routine table. In remote mode rows are keyed by
// the remote id; in local mode the table assigns ids itself.
type RoutineCache interface {
	// Insert adds a locally owned routine and fills in its id and CreatedAt.
	Insert(ctx context.Context, routine *domain.Routine) error
	// Upsert inserts or replaces a routine keyed by its remote id.
	Upsert(ctx context.Context, routine domain.Routine) error
	// List returns the user's routines, newest first.
	List(ctx context.Context, userID string) ([]domain.Routine, error)
	// Update overwrites name and exercises of a locally owned routine.
	Update(ctx context.Context, routine domain.Routine) error
	// Delete removes a routine by the id it was surfaced with. Idempotent.
	Delete(ctx context.Context, userID, id string) error
	// Clear drops every cached routine of the user.
	Clear(ctx context.Context, userID string) error
}

// WorkoutHistoryRepository persists completed workouts.
type WorkoutHistoryRepository interface {
	// RecordCompletedWorkout writes the entry, exercises and sets in one
	// transaction and returns the new entry id.
	RecordCompletedWorkout(ctx context.Context, routineName string, durationSeconds int64, exercises []domain.CompletedExercise) (int64, error)
	GetWorkoutHistory(ctx context.Context) ([]domain.WorkoutHistoryEntry, error)
	GetWorkoutDetail(ctx context.Context, id int64) (*domain.WorkoutDetail, error)
	DeleteWorkout(ctx context.Context, id int64) error
}
