package dayview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/training"
)

var errUnavailable = errors.New("backend unavailable")

// memBackend is a minimal in-memory store for one workout day.
type memBackend struct {
	mu        sync.Mutex
	day       training.WorkoutDay
	records   []training.SetRecord
	nextID    int64
	session   training.Session
	dayLoads  int
	failDay   bool
	failWrite bool
}

func newMemBackend() *memBackend {
	return &memBackend{
		day: training.WorkoutDay{
			ID:   testDayID,
			Name: "Push",
			Exercises: []training.ExerciseAssignment{
				{ID: benchID, WorkoutDayID: testDayID, ExerciseID: 601, Position: 1, TargetSets: 1, TargetRepsMin: 5, TargetRepsMax: 5, TargetWeight: 80},
			},
		},
		nextID:  200,
		session: training.Session{ID: 77, WorkoutDayID: testDayID},
	}
}

func (b *memBackend) GetWorkoutDay(_ context.Context, dayID int64) (*training.WorkoutDay, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dayLoads++
	if b.failDay || dayID != b.day.ID {
		return nil, errUnavailable
	}
	day := b.day
	return &day, nil
}

func (b *memBackend) GetExerciseDetail(_ context.Context, exerciseID int64) (*training.ExerciseDetail, error) {
	return &training.ExerciseDetail{ID: exerciseID, Name: "Bench press", MediaRef: "media/bench.png"}, nil
}

func (b *memBackend) ListDaySetRecords(_ context.Context, clientID, workoutDayID int64) ([]training.SetRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var records []training.SetRecord
	for _, r := range b.records {
		if r.ClientID == clientID && r.WorkoutDayID == workoutDayID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (b *memBackend) ListExerciseSetRecords(_ context.Context, clientID, assignmentID int64) ([]training.SetRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var records []training.SetRecord
	for _, r := range b.records {
		if r.ClientID == clientID && r.ExerciseAssignmentID == assignmentID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (b *memBackend) CreateSetRecord(_ context.Context, rec training.NewSetRecord) (*training.SetRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return nil, errUnavailable
	}
	b.nextID++
	created := training.SetRecord{
		ID:                   b.nextID,
		ClientID:             rec.ClientID,
		WorkoutDayID:         rec.WorkoutDayID,
		ExerciseAssignmentID: rec.ExerciseAssignmentID,
		SetNumber:            rec.SetNumber,
		Reps:                 rec.Reps,
		Weight:               rec.Weight,
		CompletedAt:          rec.CompletedAt,
	}
	b.records = append(b.records, created)
	return &created, nil
}

func (b *memBackend) DeleteSetRecord(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return errUnavailable
	}
	kept := b.records[:0]
	for _, r := range b.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	b.records = kept
	return nil
}

func (b *memBackend) GetOrCreateSession(_ context.Context, clientID, workoutDayID int64, dayStart, _ time.Time) (*training.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session.ClientID = clientID
	b.session.WorkoutDayID = workoutDayID
	b.session.StartedAt = dayStart
	s := b.session
	return &s, nil
}

func (b *memBackend) UpdateSession(_ context.Context, _ int64, update training.SessionUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return errUnavailable
	}
	b.session.IsCompleted = update.IsCompleted
	b.session.CompletedAt = update.CompletedAt
	return nil
}

func (b *memBackend) recordCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

func (b *memBackend) loads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dayLoads
}
