package setlog

import (
	"github.com/2beens/fitcoach/internal/training"
)

type CompletionState string

const (
	DayIncomplete CompletionState = "incomplete"
	DayComplete   CompletionState = "complete"
)

type Draft struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
}

func (d Draft) hasData() bool {
	return d.Reps != "" || d.Weight != ""
}

type Slot struct {
	SetNumber         int                 `json:"setNumber"`
	State             SlotState           `json:"state"`
	Record            *training.SetRecord `json:"record,omitempty"`
	Draft             *Draft              `json:"draft,omitempty"`
	RepsPlaceholder   string              `json:"repsPlaceholder,omitempty"`
	WeightPlaceholder string              `json:"weightPlaceholder,omitempty"`
	Committing        bool                `json:"committing,omitempty"`
}

type ExerciseView struct {
	Assignment     training.ExerciseAssignment `json:"assignment"`
	Detail         training.ExerciseDetail     `json:"detail"`
	Bodyweight     bool                        `json:"bodyweight"`
	Slots          []Slot                      `json:"slots"`
	Suggestions    []training.SetRecord        `json:"suggestions,omitempty"`
	HasHistory     bool                        `json:"hasHistory"`
	CommittedCount int                         `json:"committedCount"`
	ExtraSlots     int                         `json:"extraSlots"`
	Complete       bool                        `json:"complete"`
	Highlight      bool                        `json:"highlight,omitempty"`
}

// Duplicate is an observed second record for the same exercise and set number today.
type Duplicate struct {
	ExerciseID int64   `json:"exerciseId"`
	SetNumber  int     `json:"setNumber"`
	RecordIDs  []int64 `json:"recordIds"`
}

type DayView struct {
	DayID             int64           `json:"dayId"`
	Name              string          `json:"name"`
	Notes             string          `json:"notes"`
	EstimatedDuration int             `json:"estimatedDuration"`
	ClientID          int64           `json:"clientId"`
	SessionID         int64           `json:"sessionId"`
	Completion        CompletionState `json:"completion"`
	Exercises         []ExerciseView  `json:"exercises"`
	Duplicates        []Duplicate     `json:"duplicates,omitempty"`
	Loaded            bool            `json:"loaded"`
	Stale             bool            `json:"stale,omitempty"`
	Halted            bool            `json:"halted,omitempty"`
	Error             string          `json:"error,omitempty"`
}

// Exercise returns the view of one exercise assignment.
func (v DayView) Exercise(exerciseID int64) (ExerciseView, bool) {
	for _, ex := range v.Exercises {
		if ex.Assignment.ID == exerciseID {
			return ex, true
		}
	}
	return ExerciseView{}, false
}
