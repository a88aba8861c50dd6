package setlog

import (
	"context"
	"time"

	"github.com/2beens/fitcoach/internal/training"
)

// Backend is the set record store and session endpoint the engine reconciles against.
type Backend interface {
	GetWorkoutDay(ctx context.Context, dayID int64) (*training.WorkoutDay, error)
	GetExerciseDetail(ctx context.Context, exerciseID int64) (*training.ExerciseDetail, error)
	// ListDaySetRecords returns today's and prior records of the workout day.
	ListDaySetRecords(ctx context.Context, clientID, workoutDayID int64) ([]training.SetRecord, error)
	// ListExerciseSetRecords returns all records of one exercise assignment.
	ListExerciseSetRecords(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error)
	CreateSetRecord(ctx context.Context, rec training.NewSetRecord) (*training.SetRecord, error)
	DeleteSetRecord(ctx context.Context, id int64) error
	GetOrCreateSession(ctx context.Context, clientID, workoutDayID int64, dayStart, dayEnd time.Time) (*training.Session, error)
	UpdateSession(ctx context.Context, id int64, update training.SessionUpdate) error
}

// DetailCache keeps exercise details across engines of one process.
type DetailCache interface {
	Get(exerciseID int64) (*training.ExerciseDetail, bool)
	Set(detail training.ExerciseDetail)
}
