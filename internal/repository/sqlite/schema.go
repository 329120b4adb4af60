package sqlite

// schema is applied in order by Store.EnsureSchema. Every statement must be
// safe to run against an existing database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS routines (
		id INTEGER PRIMARY KEY,
		remote_id TEXT UNIQUE,
		user_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		exercises TEXT NOT NULL,
		createdAt INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routines_user_created ON routines(user_id, createdAt DESC)`,
	`CREATE TABLE IF NOT EXISTS workout_history (
		id INTEGER PRIMARY KEY,
		routine_name TEXT,
		completed_at INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS performed_exercises (
		id INTEGER PRIMARY KEY,
		workout_history_id INTEGER NOT NULL,
		exercise_name TEXT NOT NULL,
		notes TEXT,
		FOREIGN KEY (workout_history_id) REFERENCES workout_history(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS performed_sets (
		id INTEGER PRIMARY KEY,
		performed_exercise_id INTEGER NOT NULL,
		set_number INTEGER NOT NULL,
		weight_kg TEXT,
		reps TEXT,
		FOREIGN KEY (performed_exercise_id) REFERENCES performed_exercises(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_performed_exercises_history ON performed_exercises(workout_history_id)`,
	`CREATE INDEX IF NOT EXISTS idx_performed_sets_exercise ON performed_sets(performed_exercise_id)`,
}
