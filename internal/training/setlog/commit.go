package setlog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"

	"go.opentelemetry.io/otel/attribute"
)

// SetDraft stores the typed, uncommitted input of a visible slot.
// Clearing both fields removes the draft.
func (e *Engine) SetDraft(exerciseID int64, setNumber int, reps, weight string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.assignmentLocked(exerciseID)
	if err != nil {
		return err
	}

	key := slotKey{exerciseID, setNumber}
	if count := e.slotCountLocked(ex); setNumber < 1 || setNumber > count {
		return fmt.Errorf("%w: set %d is not shown [%d slots]", ErrValidation, setNumber, count)
	}
	if e.inFlight[key] {
		return ErrCommitInFlight
	}
	if _, ok := e.committed[exerciseID][setNumber]; ok {
		return fmt.Errorf("%w: set %d already committed", ErrValidation, setNumber)
	}

	draft := Draft{Reps: reps, Weight: weight}
	if !draft.hasData() {
		delete(e.drafts, key)
		return nil
	}
	e.drafts[key] = draft
	return nil
}

// SetBodyweight marks all sets of an exercise as bodyweight sets.
func (e *Engine) SetBodyweight(exerciseID int64, bodyweight bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.assignmentLocked(exerciseID); err != nil {
		return err
	}
	e.bodyweight[exerciseID] = bodyweight
	return nil
}

// Commit persists the draft of one slot. Validation errors never reach the backend.
// On success the day's records are refetched and replace the local ones.
// The created record is returned even when that refetch fails, together
// with an ErrStale error.
func (e *Engine) Commit(ctx context.Context, exerciseID int64, setNumber int) (_ *training.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "setlog.commit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("exercise.id", exerciseID),
		attribute.Int("set.number", setNumber),
	)

	key := slotKey{exerciseID, setNumber}

	e.mu.Lock()
	newRecord, err := e.prepareCommitLocked(exerciseID, setNumber)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.inFlight[key] = true
	e.mu.Unlock()

	created, err := e.backend.CreateSetRecord(ctx, newRecord)
	if err == nil && created == nil {
		err = errors.New("empty response")
	}

	e.mu.Lock()
	delete(e.inFlight, key)
	if err != nil {
		e.mu.Unlock()
		e.observe(func(m *metrics.Manager) {
			m.CounterSetCommitFailures.Inc()
		})
		e.logger.Errorf("failed to commit set %d of exercise %d: %s", setNumber, exerciseID, err)
		return nil, fmt.Errorf("create set record: %w", err)
	}
	delete(e.drafts, key)
	e.extraSlots[exerciseID] = 0
	e.mu.Unlock()

	e.observe(func(m *metrics.Manager) {
		m.CounterSetCommits.Inc()
	})

	if _, err := e.refetch(ctx, created.ID); err != nil {
		return created, err
	}
	e.evaluate(ctx)

	return created, nil
}

func (e *Engine) prepareCommitLocked(exerciseID int64, setNumber int) (training.NewSetRecord, error) {
	ex, err := e.assignmentLocked(exerciseID)
	if err != nil {
		return training.NewSetRecord{}, err
	}
	// a draft left on a slot that is no longer shown cannot be committed
	if count := e.slotCountLocked(ex); setNumber < 1 || setNumber > count {
		return training.NewSetRecord{}, fmt.Errorf("%w: set %d is not shown [%d slots]", ErrValidation, setNumber, count)
	}

	key := slotKey{exerciseID, setNumber}
	if e.inFlight[key] {
		return training.NewSetRecord{}, ErrCommitInFlight
	}
	if _, ok := e.committed[exerciseID][setNumber]; ok {
		return training.NewSetRecord{}, fmt.Errorf("%w: set %d already committed", ErrValidation, setNumber)
	}

	draft := e.drafts[key]
	bodyweight := e.bodyweight[exerciseID]

	repsText := strings.TrimSpace(draft.Reps)
	if repsText == "" {
		return training.NewSetRecord{}, fmt.Errorf("%w: reps are required", ErrValidation)
	}
	weightText := strings.TrimSpace(draft.Weight)
	if weightText == "" && !bodyweight {
		return training.NewSetRecord{}, fmt.Errorf("%w: weight or bodyweight is required", ErrValidation)
	}

	reps, err := strconv.Atoi(repsText)
	if err != nil || reps < 0 {
		return training.NewSetRecord{}, fmt.Errorf("%w: invalid reps [%s]", ErrValidation, repsText)
	}

	weight := 0.0
	if !bodyweight {
		weight, err = parseWeight(weightText)
		if err != nil || weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return training.NewSetRecord{}, fmt.Errorf("%w: invalid weight [%s]", ErrValidation, weightText)
		}
	}

	return training.NewSetRecord{
		ClientID:             e.authCtx.ClientID,
		WorkoutDayID:         e.dayID,
		ExerciseAssignmentID: exerciseID,
		SetNumber:            setNumber,
		Reps:                 reps,
		Weight:               weight,
		CompletedAt:          e.now(),
	}, nil
}

// Delete removes the record backing a committed slot, or clears the draft of
// an uncommitted one without calling the backend. Deleting an empty slot is a no-op.
func (e *Engine) Delete(ctx context.Context, exerciseID int64, setNumber int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "setlog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("exercise.id", exerciseID),
		attribute.Int("set.number", setNumber),
	)

	key := slotKey{exerciseID, setNumber}

	e.mu.Lock()
	if _, err := e.assignmentLocked(exerciseID); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.inFlight[key] {
		e.mu.Unlock()
		return ErrCommitInFlight
	}
	record, committed := e.committed[exerciseID][setNumber]
	if !committed {
		delete(e.drafts, key)
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	if err := e.backend.DeleteSetRecord(ctx, record.ID); err != nil {
		e.logger.Errorf("failed to delete set record %d: %s", record.ID, err)
		return fmt.Errorf("delete set record %d: %w", record.ID, err)
	}

	e.mu.Lock()
	// a refetch issued before this point may still hold the deleted record
	e.appliedTicket = e.nextTicket()
	e.removeRecordLocked(record.ID)
	delete(e.drafts, key)
	e.mu.Unlock()

	e.observe(func(m *metrics.Manager) {
		m.CounterSetDeletes.Inc()
	})
	e.evaluate(ctx)

	return nil
}

// AddSlot shows one more slot for the exercise. It is refused while the
// last shown slot holds an uncommitted draft.
func (e *Engine) AddSlot(exerciseID int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.assignmentLocked(exerciseID)
	if err != nil {
		return false, err
	}

	if count := e.slotCountLocked(ex); count > 0 {
		key := slotKey{exerciseID, count}
		_, committed := e.committed[exerciseID][count]
		if !committed && e.drafts[key].hasData() {
			return false, nil
		}
	}

	e.extraSlots[exerciseID]++
	return true, nil
}

func (e *Engine) assignmentLocked(exerciseID int64) (training.ExerciseAssignment, error) {
	if err := e.readyErrLocked(); err != nil {
		return training.ExerciseAssignment{}, err
	}
	ex, ok := e.assignments[exerciseID]
	if !ok {
		return training.ExerciseAssignment{}, fmt.Errorf("%w: %d", ErrUnknownExercise, exerciseID)
	}
	return ex, nil
}

func (e *Engine) slotCountLocked(ex training.ExerciseAssignment) int {
	committedBySet := e.committed[ex.ID]
	return SlotCount(
		ex.TargetSets,
		e.extraSlots[ex.ID],
		maxSetNumber(committedBySet),
		len(committedBySet),
		len(e.history[ex.ID]) > 0,
	)
}
