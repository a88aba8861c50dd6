package sets

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSetRecordNotFound  = errors.New("set record not found")
	ErrAssignmentMismatch = errors.New("exercise assignment does not belong to workout day")
)

const setRecordColumns = `id, client_id, workout_day_id, workout_exercise_id, set_number, reps, weight, completed_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, rec training.NewSetRecord) (_ *training.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("client.id", rec.ClientID),
		attribute.Int64("assignment.id", rec.ExerciseAssignmentID),
		attribute.Int("set.number", rec.SetNumber),
	)

	// the assignment must be part of the workout day the set is logged for
	var id int64
	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO set_record
				(client_id, workout_day_id, workout_exercise_id, set_number, reps, weight, completed_at)
			SELECT $1, $2, $3, $4, $5, $6, $7
			WHERE EXISTS (SELECT 1 FROM workout_exercise WHERE id = $3 AND workout_day_id = $2)
			RETURNING id;`,
		rec.ClientID, rec.WorkoutDayID, rec.ExerciseAssignmentID, rec.SetNumber, rec.Reps, rec.Weight, rec.CompletedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentMismatch
		}
		if pkg.IsCheckViolationError(err) {
			return nil, fmt.Errorf("%w: %s", training.ErrInvalidSetRecord, err)
		}
		// unknown client
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("%w: %s", training.ErrInvalidSetRecord, err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("set_record.id", id))

	return &training.SetRecord{
		ID:                   id,
		ClientID:             rec.ClientID,
		WorkoutDayID:         rec.WorkoutDayID,
		ExerciseAssignmentID: rec.ExerciseAssignmentID,
		SetNumber:            rec.SetNumber,
		Reps:                 rec.Reps,
		Weight:               rec.Weight,
		CompletedAt:          rec.CompletedAt,
	}, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *training.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+setRecordColumns+` FROM set_record WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := rows2records(rows)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, ErrSetRecordNotFound
	}

	return &records[0], nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM set_record WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetRecordNotFound
	}
	return nil
}

// ListDay returns all records of a client for a workout day, oldest first.
func (r *Repo) ListDay(ctx context.Context, clientID, dayID int64) (_ []training.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("client.id", clientID), attribute.Int64("day.id", dayID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+setRecordColumns+`
			FROM set_record
			WHERE client_id = $1 AND workout_day_id = $2
			ORDER BY completed_at, id;`,
		clientID, dayID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

// ListExercise returns all records of a client for one exercise assignment, newest first.
func (r *Repo) ListExercise(ctx context.Context, clientID, assignmentID int64) (_ []training.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("client.id", clientID), attribute.Int64("assignment.id", assignmentID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+setRecordColumns+`
			FROM set_record
			WHERE client_id = $1 AND workout_exercise_id = $2
			ORDER BY completed_at DESC, id DESC;`,
		clientID, assignmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

func rows2records(rows pgx.Rows) ([]training.SetRecord, error) {
	records := []training.SetRecord{}
	for rows.Next() {
		var rec training.SetRecord
		if err := rows.Scan(
			&rec.ID, &rec.ClientID, &rec.WorkoutDayID, &rec.ExerciseAssignmentID,
			&rec.SetNumber, &rec.Reps, &rec.Weight, &rec.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
