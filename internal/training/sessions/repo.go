package sessions

import (
	"context"
	"errors"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionNotFound = errors.New("training session not found")

const sessionColumns = `id, client_id, workout_day_id, is_completed, started_at, completed_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetOrCreate returns the client's session of the workout day started within
// [DayStart, DayEnd), creating it when there is none. Concurrent calls for the
// same client and day are serialized by an advisory lock.
func (r *Repo) GetOrCreate(ctx context.Context, ns training.NewSession) (_ *training.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.getOrCreate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("client.id", ns.ClientID),
		attribute.Int64("day.id", ns.WorkoutDayID),
		attribute.String("day.start", ns.DayStart.String()),
	)

	var session training.Session
	created := false
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(
			ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::bigint::text || ':' || $2::bigint::text, 0));`,
			ns.ClientID, ns.WorkoutDayID,
		); err != nil {
			return err
		}

		err := tx.QueryRow(
			ctx,
			`
				SELECT `+sessionColumns+`
				FROM training_session
				WHERE client_id = $1 AND workout_day_id = $2 AND started_at >= $3 AND started_at < $4
				ORDER BY id
				LIMIT 1;`,
			ns.ClientID, ns.WorkoutDayID, ns.DayStart, ns.DayEnd,
		).Scan(&session.ID, &session.ClientID, &session.WorkoutDayID, &session.IsCompleted, &session.StartedAt, &session.CompletedAt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		created = true
		// started_at must fall into the requested day, even when the clocks disagree
		return tx.QueryRow(
			ctx,
			`
				INSERT INTO training_session (client_id, workout_day_id, started_at)
				VALUES ($1, $2, CASE WHEN now() >= $3 AND now() < $4 THEN now() ELSE $3 END)
				RETURNING `+sessionColumns+`;`,
			ns.ClientID, ns.WorkoutDayID, ns.DayStart, ns.DayEnd,
		).Scan(&session.ID, &session.ClientID, &session.WorkoutDayID, &session.IsCompleted, &session.StartedAt, &session.CompletedAt)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("session.id", session.ID), attribute.Bool("created", created))

	return &session, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *training.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	var session training.Session
	err = r.db.QueryRow(
		ctx,
		`SELECT `+sessionColumns+` FROM training_session WHERE id = $1;`,
		id,
	).Scan(&session.ID, &session.ClientID, &session.WorkoutDayID, &session.IsCompleted, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

func (r *Repo) Update(ctx context.Context, id int64, update training.SessionUpdate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id), attribute.Bool("completed", update.IsCompleted))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_session SET is_completed = $1, completed_at = $2 WHERE id = $3;`,
		update.IsCompleted, update.CompletedAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}
