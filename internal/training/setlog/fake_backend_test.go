package setlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/training"
)

var errBackend = errors.New("backend unavailable")

// fakeBackend is an in-memory Backend counting its calls.
type fakeBackend struct {
	mu      sync.Mutex
	day     *training.WorkoutDay
	details map[int64]training.ExerciseDetail
	records []training.SetRecord
	nextID  int64
	session training.Session
	updates []training.SessionUpdate
	calls   map[string]int
	errs    map[string]error
	// createGate, when set, blocks CreateSetRecord until it is closed
	createGate chan struct{}
	createSeen chan struct{}
}

func newFakeBackend(day *training.WorkoutDay) *fakeBackend {
	return &fakeBackend{
		day:     day,
		details: map[int64]training.ExerciseDetail{},
		nextID:  100,
		session: training.Session{ID: 900, ClientID: testClientID, WorkoutDayID: day.ID},
		calls:   map[string]int{},
		errs:    map[string]error{},
	}
}

func (b *fakeBackend) call(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
	return b.errs[name]
}

func (b *fakeBackend) setErr(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errs[name] = err
}

func (b *fakeBackend) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *fakeBackend) addRecord(rec training.SetRecord) training.SetRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec.ID == 0 {
		b.nextID++
		rec.ID = b.nextID
	}
	if rec.ClientID == 0 {
		rec.ClientID = testClientID
	}
	if rec.WorkoutDayID == 0 {
		rec.WorkoutDayID = b.day.ID
	}
	b.records = append(b.records, rec)
	return rec
}

func (b *fakeBackend) sessionUpdates() []training.SessionUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]training.SessionUpdate(nil), b.updates...)
}

func (b *fakeBackend) GetWorkoutDay(_ context.Context, dayID int64) (*training.WorkoutDay, error) {
	if err := b.call("GetWorkoutDay"); err != nil {
		return nil, err
	}
	if dayID != b.day.ID {
		return nil, fmt.Errorf("day %d not found", dayID)
	}
	day := *b.day
	day.Exercises = append([]training.ExerciseAssignment(nil), b.day.Exercises...)
	return &day, nil
}

func (b *fakeBackend) GetExerciseDetail(_ context.Context, exerciseID int64) (*training.ExerciseDetail, error) {
	if err := b.call("GetExerciseDetail"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	detail, ok := b.details[exerciseID]
	if !ok {
		return nil, fmt.Errorf("exercise %d not found", exerciseID)
	}
	return &detail, nil
}

func (b *fakeBackend) ListDaySetRecords(_ context.Context, clientID, workoutDayID int64) ([]training.SetRecord, error) {
	if err := b.call("ListDaySetRecords"); err != nil {
		return nil, err
	}
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

func (b *fakeBackend) ListExerciseSetRecords(_ context.Context, clientID, assignmentID int64) ([]training.SetRecord, error) {
	if err := b.call("ListExerciseSetRecords"); err != nil {
		return nil, err
	}
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

func (b *fakeBackend) CreateSetRecord(_ context.Context, rec training.NewSetRecord) (*training.SetRecord, error) {
	if b.createSeen != nil {
		b.createSeen <- struct{}{}
	}
	if b.createGate != nil {
		<-b.createGate
	}
	if err := b.call("CreateSetRecord"); err != nil {
		return nil, err
	}
	created := b.addRecord(training.SetRecord{
		ClientID:             rec.ClientID,
		WorkoutDayID:         rec.WorkoutDayID,
		ExerciseAssignmentID: rec.ExerciseAssignmentID,
		SetNumber:            rec.SetNumber,
		Reps:                 rec.Reps,
		Weight:               rec.Weight,
		CompletedAt:          rec.CompletedAt,
	})
	return &created, nil
}

func (b *fakeBackend) DeleteSetRecord(_ context.Context, id int64) error {
	if err := b.call("DeleteSetRecord"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.records[:0]
	for _, r := range b.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	b.records = kept
	return nil
}

func (b *fakeBackend) GetOrCreateSession(_ context.Context, clientID, workoutDayID int64, dayStart, _ time.Time) (*training.Session, error) {
	if err := b.call("GetOrCreateSession"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session.ClientID = clientID
	b.session.WorkoutDayID = workoutDayID
	if b.session.StartedAt.IsZero() {
		b.session.StartedAt = dayStart
	}
	s := b.session
	return &s, nil
}

func (b *fakeBackend) UpdateSession(_ context.Context, id int64, update training.SessionUpdate) error {
	if err := b.call("UpdateSession"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != b.session.ID {
		return fmt.Errorf("session %d not found", id)
	}
	b.session.IsCompleted = update.IsCompleted
	b.session.CompletedAt = update.CompletedAt
	b.updates = append(b.updates, update)
	return nil
}

type mapDetailCache struct {
	mu      sync.Mutex
	details map[int64]training.ExerciseDetail
}

func newMapDetailCache() *mapDetailCache {
	return &mapDetailCache{details: map[int64]training.ExerciseDetail{}}
}

func (c *mapDetailCache) Get(exerciseID int64) (*training.ExerciseDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.details[exerciseID]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (c *mapDetailCache) Set(detail training.ExerciseDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[detail.ID] = detail
}
