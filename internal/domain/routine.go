package domain

import (
	"strings"
	"time"
)

// SetTarget is a planned set inside a routine exercise. Weights and reps stay
// free-form text so partial entries survive a save.
type SetTarget struct {
	SetNumber    int    `bson:"setNumber" json:"setNumber"`
	PreviousKg   string `bson:"previousKg,omitempty" json:"previousKg,omitempty"`
	PreviousReps string `bson:"previousReps,omitempty" json:"previousReps,omitempty"`
	Kg           string `bson:"kg" json:"kg"`
	Reps         string `bson:"reps" json:"reps"`
}

// Exercise is an exercise as it appears inside a routine template.
// Sets and Reps are targets such as "3", "8-12" or "até a falha".
type Exercise struct {
	ID              string      `bson:"id" json:"id"`
	Name            string      `bson:"name" json:"name"`
	Sets            string      `bson:"sets" json:"sets"`
	Reps            string      `bson:"reps" json:"reps"`
	MuscleFocus     string      `bson:"muscleFocus,omitempty" json:"muscleFocus,omitempty"`
	MuscleSecondary []string    `bson:"muscleSecondary,omitempty" json:"muscleSecondary,omitempty"`
	Notes           string      `bson:"notes,omitempty" json:"notes,omitempty"`
	SetsData        []SetTarget `bson:"setsData,omitempty" json:"setsData,omitempty"`
}

// HasTargets reports whether both the sets and reps targets are filled in.
func (e Exercise) HasTargets() bool {
	return strings.TrimSpace(e.Sets) != "" && strings.TrimSpace(e.Reps) != ""
}

// Routine is a named, reusable list of exercises.
// UserID is empty when the local store is the only authority.
type Routine struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId,omitempty"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"createdAt"`
}
