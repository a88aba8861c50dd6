package setlog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"

	"go.opentelemetry.io/otel/attribute"
)

const (
	sourceAuto   = "auto"
	sourceManual = "manual"
)

type completion struct {
	complete bool
	// lastPredicate is the day predicate seen by the last successful evaluation.
	// Only its falling edge takes a complete day back to incomplete.
	lastPredicate bool
	// evaluatedRev is the records revision of the last successful evaluation.
	evaluatedRev uint64
	// highlight is the exercise flagged when the day turned complete.
	highlight int64
}

func exerciseComplete(ex training.ExerciseAssignment, committedCount int) bool {
	return ex.TargetSets > 0 && committedCount >= ex.TargetSets
}

// dayPredicateLocked reports whether every exercise reached its target, and
// the first exercise in display order that did.
func (e *Engine) dayPredicateLocked() (bool, int64) {
	if len(e.exercises) == 0 {
		return false, 0
	}

	all := true
	var first int64
	for _, ex := range e.exercises {
		if exerciseComplete(ex, len(e.committed[ex.ID])) {
			if first == 0 {
				first = ex.ID
			}
		} else {
			all = false
		}
	}
	return all, first
}

// evaluate runs after today's records changed. A day whose predicate holds
// is driven to complete, and a falling predicate edge takes a complete day
// back to incomplete. A failed update leaves the state untouched, so the
// next evaluation retries it.
func (e *Engine) evaluate(ctx context.Context) {
	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	e.mu.Lock()
	if !e.loaded || e.haltErr != nil {
		e.mu.Unlock()
		return
	}
	predicate, first := e.dayPredicateLocked()
	current := e.completion
	rev := e.recordsRev
	sessionID := e.session.ID
	e.mu.Unlock()

	if rev == current.evaluatedRev {
		return
	}

	rising := predicate && !current.complete
	falling := !predicate && current.lastPredicate && current.complete
	if !rising && !falling {
		e.mu.Lock()
		e.completion.lastPredicate = predicate
		e.completion.evaluatedRev = rev
		e.mu.Unlock()
		return
	}

	update := training.SessionUpdate{IsCompleted: predicate}
	if predicate {
		now := e.now()
		update.CompletedAt = &now
	}
	if err := e.updateSession(ctx, sessionID, update, sourceAuto); err != nil {
		e.logger.Errorf("failed to update session %d [completed: %t]: %s", sessionID, predicate, err)
		return
	}

	e.mu.Lock()
	e.completion = completion{
		complete:      predicate,
		lastPredicate: predicate,
		evaluatedRev:  rev,
	}
	if predicate {
		e.completion.highlight = first
	}
	e.setSessionLocked(update)
	e.mu.Unlock()
}

// ToggleCompletion sets the session completion directly. The override holds
// until today's records change.
func (e *Engine) ToggleCompletion(ctx context.Context, completed bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "setlog.toggle_completion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("completed", completed))

	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	e.mu.Lock()
	if err := e.readyErrLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	_, first := e.dayPredicateLocked()
	wasComplete := e.completion.complete
	sessionID := e.session.ID
	e.mu.Unlock()

	update := training.SessionUpdate{IsCompleted: completed}
	if completed {
		now := e.now()
		update.CompletedAt = &now
	}
	if err := e.updateSession(ctx, sessionID, update, sourceManual); err != nil {
		e.logger.Errorf("failed to toggle session %d [completed: %t]: %s", sessionID, completed, err)
		return fmt.Errorf("update session: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.completion.complete = completed
	switch {
	case !completed:
		e.completion.highlight = 0
	case !wasComplete:
		e.completion.highlight = first
	}
	e.setSessionLocked(update)

	return nil
}

func (e *Engine) updateSession(ctx context.Context, sessionID int64, update training.SessionUpdate, source string) error {
	if err := e.backend.UpdateSession(ctx, sessionID, update); err != nil {
		return err
	}
	e.observe(func(m *metrics.Manager) {
		m.CounterSessionUpdates.WithLabelValues(source, strconv.FormatBool(update.IsCompleted)).Inc()
	})
	return nil
}

func (e *Engine) setSessionLocked(update training.SessionUpdate) {
	e.session.IsCompleted = update.IsCompleted
	e.session.CompletedAt = update.CompletedAt
}
