package training

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSetRecord = errors.New("invalid set record")

const FallbackMediaRef = "media/placeholder-exercise.png"

// ExerciseAssignment is a planned exercise within a workout day.
type ExerciseAssignment struct {
	ID            int64   `json:"id"`
	WorkoutDayID  int64   `json:"workoutDayId"`
	ExerciseID    int64   `json:"exerciseId"`
	Position      int     `json:"position"`
	TargetSets    int     `json:"targetSets"`
	TargetRepsMin int     `json:"targetRepsMin"`
	TargetRepsMax int     `json:"targetRepsMax"`
	TargetWeight  float64 `json:"targetWeight"`
	RestSeconds   int     `json:"restSeconds"`
	Group         string  `json:"group,omitempty"`
}

type WorkoutDay struct {
	ID                int64                `json:"id"`
	PlanID            int64                `json:"planId"`
	Name              string               `json:"name"`
	Notes             string               `json:"notes"`
	EstimatedDuration int                  `json:"estimatedDuration"` // minutes
	Exercises         []ExerciseAssignment `json:"exercises"`
}

type ExerciseDetail struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	MediaRef     string `json:"mediaRef"`
	Fallback     bool   `json:"fallback,omitempty"`
}

// FallbackDetail is shown when the exercise detail cannot be fetched.
func FallbackDetail(exerciseID int64) ExerciseDetail {
	return ExerciseDetail{
		ID:       exerciseID,
		Name:     fmt.Sprintf("Exercise #%d", exerciseID),
		MediaRef: FallbackMediaRef,
		Fallback: true,
	}
}

// SetRecord is a persisted, completed set.
type SetRecord struct {
	ID                   int64     `json:"id"`
	ClientID             int64     `json:"clientId"`
	WorkoutDayID         int64     `json:"workoutDayId"`
	ExerciseAssignmentID int64     `json:"exerciseAssignmentId"`
	SetNumber            int       `json:"setNumber"`
	Reps                 int       `json:"reps"`
	Weight               float64   `json:"weight"` // 0 is bodyweight
	CompletedAt          time.Time `json:"completedAt"`
}

func (r SetRecord) Validate() error {
	switch {
	case r.ExerciseAssignmentID <= 0:
		return fmt.Errorf("%w: missing exercise assignment", ErrInvalidSetRecord)
	case r.SetNumber < 1:
		return fmt.Errorf("%w: set number %d", ErrInvalidSetRecord, r.SetNumber)
	case r.Reps < 0:
		return fmt.Errorf("%w: reps %d", ErrInvalidSetRecord, r.Reps)
	case r.Weight < 0:
		return fmt.Errorf("%w: weight %.2f", ErrInvalidSetRecord, r.Weight)
	}
	return nil
}

type NewSetRecord struct {
	ClientID             int64     `json:"clientId"`
	WorkoutDayID         int64     `json:"workoutDayId"`
	ExerciseAssignmentID int64     `json:"exerciseAssignmentId"`
	SetNumber            int       `json:"setNumber"`
	Reps                 int       `json:"reps"`
	Weight               float64   `json:"weight"`
	CompletedAt          time.Time `json:"completedAt"`
}

func (r NewSetRecord) Validate() error {
	return SetRecord{
		ClientID:             r.ClientID,
		WorkoutDayID:         r.WorkoutDayID,
		ExerciseAssignmentID: r.ExerciseAssignmentID,
		SetNumber:            r.SetNumber,
		Reps:                 r.Reps,
		Weight:               r.Weight,
	}.Validate()
}

// Session is the training session of one client on one workout day, on one local day.
type Session struct {
	ID           int64      `json:"id"`
	ClientID     int64      `json:"clientId"`
	WorkoutDayID int64      `json:"workoutDayId"`
	IsCompleted  bool       `json:"isCompleted"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type NewSession struct {
	ClientID     int64     `json:"clientId"`
	WorkoutDayID int64     `json:"workoutDayId"`
	DayStart     time.Time `json:"dayStart"`
	DayEnd       time.Time `json:"dayEnd"`
}

type SessionUpdate struct {
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}
