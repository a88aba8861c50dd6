// Package localapi serves the engine backend straight from the repositories,
// for engines hosted inside the service.
package localapi

import (
	"context"
	"time"

	"github.com/2beens/fitcoach/internal/training"
)

type plansRepo interface {
	GetWorkoutDay(ctx context.Context, id int64) (*training.WorkoutDay, error)
	GetExerciseDetail(ctx context.Context, id int64) (*training.ExerciseDetail, error)
}

type setsRepo interface {
	Add(ctx context.Context, rec training.NewSetRecord) (*training.SetRecord, error)
	Delete(ctx context.Context, id int64) error
	ListDay(ctx context.Context, clientID, dayID int64) ([]training.SetRecord, error)
	ListExercise(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error)
}

type sessionsRepo interface {
	GetOrCreate(ctx context.Context, ns training.NewSession) (*training.Session, error)
	Update(ctx context.Context, id int64, update training.SessionUpdate) error
}

type Backend struct {
	plans    plansRepo
	sets     setsRepo
	sessions sessionsRepo
}

func NewBackend(plans plansRepo, sets setsRepo, sessions sessionsRepo) *Backend {
	return &Backend{
		plans:    plans,
		sets:     sets,
		sessions: sessions,
	}
}

func (b *Backend) GetWorkoutDay(ctx context.Context, dayID int64) (*training.WorkoutDay, error) {
	return b.plans.GetWorkoutDay(ctx, dayID)
}

func (b *Backend) GetExerciseDetail(ctx context.Context, exerciseID int64) (*training.ExerciseDetail, error) {
	return b.plans.GetExerciseDetail(ctx, exerciseID)
}

func (b *Backend) ListDaySetRecords(ctx context.Context, clientID, workoutDayID int64) ([]training.SetRecord, error) {
	return b.sets.ListDay(ctx, clientID, workoutDayID)
}

func (b *Backend) ListExerciseSetRecords(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error) {
	return b.sets.ListExercise(ctx, clientID, assignmentID)
}

// CreateSetRecord validates before touching the store, like the REST handler does.
func (b *Backend) CreateSetRecord(ctx context.Context, rec training.NewSetRecord) (*training.SetRecord, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return b.sets.Add(ctx, rec)
}

func (b *Backend) DeleteSetRecord(ctx context.Context, id int64) error {
	return b.sets.Delete(ctx, id)
}

func (b *Backend) GetOrCreateSession(ctx context.Context, clientID, workoutDayID int64, dayStart, dayEnd time.Time) (*training.Session, error) {
	return b.sessions.GetOrCreate(ctx, training.NewSession{
		ClientID:     clientID,
		WorkoutDayID: workoutDayID,
		DayStart:     dayStart,
		DayEnd:       dayEnd,
	})
}

func (b *Backend) UpdateSession(ctx context.Context, id int64, update training.SessionUpdate) error {
	return b.sessions.Update(ctx, id, update)
}
