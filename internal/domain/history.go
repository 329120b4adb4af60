package domain

// FreeWorkoutName labels history entries recorded without a routine.
const FreeWorkoutName = "Treino Livre"

// WorkoutHistoryEntry is one finished workout session. RoutineName is a
// snapshot, not a reference: renaming or deleting the routine later does not
// touch history.
type WorkoutHistoryEntry struct {
	ID              int64  `json:"id"`
	RoutineName     string `json:"routineName"`
	CompletedAt     int64  `json:"completedAt"` // epoch seconds
	DurationSeconds int64  `json:"durationSeconds"`
}

// PerformedExercise belongs to exactly one WorkoutHistoryEntry.
type PerformedExercise struct {
	ID               int64          `json:"id"`
	WorkoutHistoryID int64          `json:"workoutHistoryId"`
	ExerciseName     string         `json:"exerciseName"`
	Notes            string         `json:"notes,omitempty"`
	Sets             []PerformedSet `json:"sets,omitempty"`
}

// PerformedSet belongs to exactly one PerformedExercise.
type PerformedSet struct {
	ID                  int64  `json:"id"`
	PerformedExerciseID int64  `json:"performedExerciseId"`
	SetNumber           int    `json:"setNumber"`
	WeightKg            string `json:"weightKg"`
	Reps                string `json:"reps"`
}

// WorkoutDetail is a history entry with its full performed tree.
type WorkoutDetail struct {
	WorkoutHistoryEntry
	Exercises []PerformedExercise `json:"exercises"`
}

// CompletedSet is one set as entered during a live workout.
type CompletedSet struct {
	SetNumber int    `json:"setNumber"`
	WeightKg  string `json:"weightKg"`
	Reps      string `json:"reps"`
}

// CompletedExercise is one exercise as entered during a live workout.
type CompletedExercise struct {
	Name  string         `json:"name"`
	Notes string         `json:"notes"`
	Sets  []CompletedSet `json:"sets"`
}
