package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrDayNotFound      = errors.New("workout day not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetWorkoutDay returns the day with its exercise assignments in display order.
func (r *Repo) GetWorkoutDay(ctx context.Context, id int64) (_ *training.WorkoutDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.getWorkoutDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	var day training.WorkoutDay
	err = r.db.QueryRow(
		ctx,
		`SELECT id, plan_id, name, notes, estimated_duration FROM workout_day WHERE id = $1;`,
		id,
	).Scan(&day.ID, &day.PlanID, &day.Name, &day.Notes, &day.EstimatedDuration)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, workout_day_id, exercise_id, position, target_sets,
				target_reps_min, target_reps_max, target_weight, rest_seconds, group_name
			FROM workout_exercise
			WHERE workout_day_id = $1
			ORDER BY position, id;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	day.Exercises = []training.ExerciseAssignment{}
	for rows.Next() {
		var a training.ExerciseAssignment
		if err := rows.Scan(
			&a.ID, &a.WorkoutDayID, &a.ExerciseID, &a.Position, &a.TargetSets,
			&a.TargetRepsMin, &a.TargetRepsMax, &a.TargetWeight, &a.RestSeconds, &a.Group,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		day.Exercises = append(day.Exercises, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises", len(day.Exercises)))

	return &day, nil
}

func (r *Repo) GetExerciseDetail(ctx context.Context, id int64) (_ *training.ExerciseDetail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.getExerciseDetail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	var detail training.ExerciseDetail
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, instructions, media_ref FROM exercise WHERE id = $1;`,
		id,
	).Scan(&detail.ID, &detail.Name, &detail.Instructions, &detail.MediaRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	return &detail, nil
}
