package localapi

import (
	"context"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/internal/training/setlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var _ setlog.Backend = (*Backend)(nil)

func TestBackend_DelegatesToRepos(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := NewMockplansRepo(ctrl)
	sets := NewMocksetsRepo(ctrl)
	sessions := NewMocksessionsRepo(ctrl)
	b := NewBackend(plans, sets, sessions)
	ctx := context.Background()

	plans.EXPECT().GetWorkoutDay(gomock.Any(), int64(7)).Return(&training.WorkoutDay{ID: 7}, nil)
	plans.EXPECT().GetExerciseDetail(gomock.Any(), int64(5)).Return(&training.ExerciseDetail{ID: 5}, nil)
	sets.EXPECT().ListDay(gomock.Any(), int64(3), int64(7)).Return([]training.SetRecord{{ID: 1}}, nil)
	sets.EXPECT().ListExercise(gomock.Any(), int64(3), int64(70)).Return(nil, nil)
	sets.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

	day, err := b.GetWorkoutDay(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), day.ID)
	detail, err := b.GetExerciseDetail(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), detail.ID)
	records, err := b.ListDaySetRecords(ctx, 3, 7)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	_, err = b.ListExerciseSetRecords(ctx, 3, 70)
	require.NoError(t, err)
	require.NoError(t, b.DeleteSetRecord(ctx, 1))

	dayStart := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	sessions.EXPECT().
		GetOrCreate(gomock.Any(), training.NewSession{ClientID: 3, WorkoutDayID: 7, DayStart: dayStart, DayEnd: dayEnd}).
		Return(&training.Session{ID: 31}, nil)
	sessions.EXPECT().Update(gomock.Any(), int64(31), training.SessionUpdate{IsCompleted: false}).Return(nil)

	session, err := b.GetOrCreateSession(ctx, 3, 7, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(31), session.ID)
	require.NoError(t, b.UpdateSession(ctx, 31, training.SessionUpdate{}))
}

func TestBackend_CreateSetRecordValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	sets := NewMocksetsRepo(ctrl)
	b := NewBackend(NewMockplansRepo(ctrl), sets, NewMocksessionsRepo(ctrl))

	_, err := b.CreateSetRecord(context.Background(), training.NewSetRecord{ExerciseAssignmentID: 70, SetNumber: 1, Reps: -3})
	require.ErrorIs(t, err, training.ErrInvalidSetRecord)

	rec := training.NewSetRecord{ClientID: 3, WorkoutDayID: 7, ExerciseAssignmentID: 70, SetNumber: 1, Reps: 3}
	sets.EXPECT().Add(gomock.Any(), rec).Return(&training.SetRecord{ID: 9}, nil).Times(1)
	created, err := b.CreateSetRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
}
