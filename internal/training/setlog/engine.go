package setlog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type slotKey struct {
	exerciseID int64
	setNumber  int
}

type Option func(*Engine)

// WithLocation sets the time zone of the local training day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithDetailCache(cache DetailCache) Option {
	return func(e *Engine) {
		e.details = cache
	}
}

func WithMetrics(metricsManager *metrics.Manager) Option {
	return func(e *Engine) {
		e.metrics = metricsManager
	}
}

// Engine reconciles the set records of one client's training day with the
// local draft input and derives slot and completion state from them.
// All methods are safe for concurrent use. The state mutex is never held
// across backend calls.
type Engine struct {
	backend Backend
	authCtx auth.Context
	dayID   int64
	loc     *time.Location
	now     func() time.Time
	details DetailCache
	metrics *metrics.Manager
	logger  *log.Entry

	loadMu sync.Mutex
	// serializes completion evaluations and manual toggles
	evalMu sync.Mutex

	mu            sync.Mutex
	loaded        bool
	haltErr       error
	stale         bool
	day           training.WorkoutDay
	dayStart      time.Time
	dayEnd        time.Time
	exercises     []training.ExerciseAssignment
	assignments   map[int64]training.ExerciseAssignment
	detail        map[int64]training.ExerciseDetail
	history       map[int64][]training.SetRecord
	today         []training.SetRecord
	committed     map[int64]map[int]training.SetRecord
	duplicates    []Duplicate
	reportedDups  map[slotKey]int
	drafts        map[slotKey]Draft
	bodyweight    map[int64]bool
	extraSlots    map[int64]int
	inFlight      map[slotKey]bool
	session       training.Session
	completion    completion
	issuedTicket  uint64
	appliedTicket uint64
	// recordsRev changes whenever the set of today's records changes
	recordsRev uint64
}

func New(backend Backend, authCtx auth.Context, dayID int64, opts ...Option) *Engine {
	e := &Engine{
		backend:      backend,
		authCtx:      authCtx,
		dayID:        dayID,
		loc:          time.UTC,
		now:          time.Now,
		assignments:  map[int64]training.ExerciseAssignment{},
		detail:       map[int64]training.ExerciseDetail{},
		history:      map[int64][]training.SetRecord{},
		committed:    map[int64]map[int]training.SetRecord{},
		reportedDups: map[slotKey]int{},
		drafts:       map[slotKey]Draft{},
		bodyweight:   map[int64]bool{},
		extraSlots:   map[int64]int{},
		inFlight:     map[slotKey]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = log.WithFields(log.Fields{
		"client_id": authCtx.ClientID,
		"day_id":    dayID,
	})
	return e
}

func (e *Engine) DayID() int64 {
	return e.dayID
}

func (e *Engine) AuthContext() auth.Context {
	return e.authCtx
}

// Load fetches the workout day and then, concurrently, the day's set records,
// the history and detail of every exercise and the session. A failure of
// anything but an exercise detail halts the engine.
func (e *Engine) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "setlog.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("day.id", e.dayID),
		attribute.Int64("client.id", e.authCtx.ClientID),
	)

	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	e.mu.Lock()
	if e.haltErr != nil {
		e.mu.Unlock()
		return e.haltedErr()
	}
	if e.loaded {
		e.mu.Unlock()
		return nil
	}
	ticket := e.nextTicket()
	e.mu.Unlock()

	begin := time.Now()

	day, err := e.backend.GetWorkoutDay(ctx, e.dayID)
	if err != nil {
		return e.halt(fmt.Errorf("get workout day: %w", err))
	}
	if day == nil {
		return e.halt(fmt.Errorf("workout day %d not found", e.dayID))
	}

	exercises := sortedExercises(day.Exercises)
	dayStart, dayEnd := training.DayBounds(e.now(), e.loc)
	clientID := e.authCtx.ClientID

	var (
		dayRecords []training.SetRecord
		session    *training.Session
		resMu      sync.Mutex
		history    = make(map[int64][]training.SetRecord, len(exercises))
		details    = make(map[int64]training.ExerciseDetail, len(exercises))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := e.backend.ListDaySetRecords(gctx, clientID, e.dayID)
		if err != nil {
			return fmt.Errorf("list day set records: %w", err)
		}
		dayRecords = records
		return nil
	})
	g.Go(func() error {
		s, err := e.backend.GetOrCreateSession(gctx, clientID, e.dayID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("get or create session: %w", err)
		}
		if s == nil {
			return fmt.Errorf("get or create session: empty response")
		}
		session = s
		return nil
	})

	seenDetails := map[int64]bool{}
	for _, ex := range exercises {
		g.Go(func() error {
			records, err := e.backend.ListExerciseSetRecords(gctx, clientID, ex.ID)
			if err != nil {
				return fmt.Errorf("list history of exercise %d: %w", ex.ID, err)
			}
			resMu.Lock()
			history[ex.ID] = training.HistoryRecords(records, dayStart)
			resMu.Unlock()
			return nil
		})

		if seenDetails[ex.ExerciseID] {
			continue
		}
		seenDetails[ex.ExerciseID] = true
		g.Go(func() error {
			detail := e.exerciseDetail(gctx, ex.ExerciseID)
			resMu.Lock()
			details[ex.ExerciseID] = detail
			resMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return e.halt(err)
	}

	e.mu.Lock()
	e.day = *day
	e.day.Exercises = exercises
	e.exercises = exercises
	for _, ex := range exercises {
		e.assignments[ex.ID] = ex
		e.detail[ex.ID] = details[ex.ExerciseID]
	}
	e.history = history
	e.session = *session
	e.completion = completion{complete: session.IsCompleted}
	e.dayStart, e.dayEnd = dayStart, dayEnd
	e.applyRecordsLocked(ticket, dayRecords)
	e.recordsRev++
	e.loaded = true
	todayCount := len(e.today)
	e.mu.Unlock()

	e.observe(func(m *metrics.Manager) {
		m.HistDayLoadDuration.Observe(time.Since(begin).Seconds())
	})
	e.logger.Debugf("training day loaded: %d exercises, %d records today", len(exercises), todayCount)

	e.evaluate(ctx)

	return nil
}

// Refresh replaces today's set records with a fresh read from the backend.
func (e *Engine) Refresh(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "setlog.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	if err := e.readyErrLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	if _, err := e.refetch(ctx, 0); err != nil {
		return err
	}
	e.evaluate(ctx)
	return nil
}

// refetch reads the day's set records and applies them as the authoritative
// state if no newer state was applied meanwhile. When mustContain is set and
// the response was discarded without the newer state holding that record,
// the read is repeated once.
func (e *Engine) refetch(ctx context.Context, mustContain int64) (bool, error) {
	var applied bool
	for attempt := 0; attempt < 2; attempt++ {
		e.mu.Lock()
		ticket := e.nextTicket()
		e.mu.Unlock()

		records, err := e.backend.ListDaySetRecords(ctx, e.authCtx.ClientID, e.dayID)
		if err != nil {
			e.mu.Lock()
			e.stale = true
			e.mu.Unlock()
			e.logger.Errorf("refetch day set records: %s", err)
			return false, fmt.Errorf("%w: list day set records: %w", ErrStale, err)
		}

		e.mu.Lock()
		applied = e.applyRecordsLocked(ticket, records)
		if applied {
			e.stale = false
		}
		contains := mustContain == 0 || e.hasRecordLocked(mustContain)
		e.mu.Unlock()

		if applied || contains {
			return applied, nil
		}
	}
	return applied, nil
}

// View returns a snapshot of the training day for rendering.
func (e *Engine) View() DayView {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.checkDayLocked()
	view := DayView{
		DayID:      e.dayID,
		ClientID:   e.authCtx.ClientID,
		Completion: DayIncomplete,
		Loaded:     e.loaded,
		Stale:      e.stale,
	}
	if e.haltErr != nil {
		view.Halted = true
		view.Error = e.haltErr.Error()
		return view
	}
	if !e.loaded {
		return view
	}

	view.Name = e.day.Name
	view.Notes = e.day.Notes
	view.EstimatedDuration = e.day.EstimatedDuration
	view.SessionID = e.session.ID
	if e.completion.complete {
		view.Completion = DayComplete
	}
	view.Duplicates = append([]Duplicate(nil), e.duplicates...)

	view.Exercises = make([]ExerciseView, 0, len(e.exercises))
	for _, ex := range e.exercises {
		view.Exercises = append(view.Exercises, e.exerciseViewLocked(ex))
	}

	return view
}

func (e *Engine) exerciseViewLocked(ex training.ExerciseAssignment) ExerciseView {
	committedBySet := e.committed[ex.ID]
	maxCommitted := maxSetNumber(committedBySet)
	history := e.history[ex.ID]
	hasHistory := len(history) > 0
	suggest := hasHistory && len(committedBySet) == 0

	exView := ExerciseView{
		Assignment:     ex,
		Detail:         e.detail[ex.ID],
		Bodyweight:     e.bodyweight[ex.ID],
		HasHistory:     hasHistory,
		CommittedCount: len(committedBySet),
		ExtraSlots:     e.extraSlots[ex.ID],
		Complete:       exerciseComplete(ex, len(committedBySet)),
		Highlight:      e.completion.highlight != 0 && e.completion.highlight == ex.ID,
	}
	if suggest {
		n := min(suggestionsCount, len(history))
		exView.Suggestions = append([]training.SetRecord(nil), history[:n]...)
	}

	count := SlotCount(ex.TargetSets, e.extraSlots[ex.ID], maxCommitted, len(committedBySet), hasHistory)
	exView.Slots = make([]Slot, 0, count)
	for n := 1; n <= count; n++ {
		key := slotKey{ex.ID, n}
		slot := Slot{
			SetNumber:         n,
			State:             SlotEmpty,
			RepsPlaceholder:   repsPlaceholder(ex.TargetRepsMin, ex.TargetRepsMax),
			WeightPlaceholder: formatWeight(ex.TargetWeight),
			Committing:        e.inFlight[key],
		}
		if n == 1 && suggest {
			slot.RepsPlaceholder = fmt.Sprintf("%d", history[0].Reps)
			slot.WeightPlaceholder = formatWeight(history[0].Weight)
		}

		if rec, ok := committedBySet[n]; ok {
			slot.State = SlotCommitted
			slot.Record = &rec
		} else if draft, ok := e.drafts[key]; ok && draft.hasData() {
			slot.State = SlotDraft
			slot.Draft = &draft
		}
		exView.Slots = append(exView.Slots, slot)
	}

	return exView
}

func (e *Engine) exerciseDetail(ctx context.Context, exerciseID int64) training.ExerciseDetail {
	if e.details != nil {
		if detail, ok := e.details.Get(exerciseID); ok {
			return *detail
		}
	}

	detail, err := e.backend.GetExerciseDetail(ctx, exerciseID)
	if err != nil || detail == nil {
		e.logger.Warnf("exercise %d detail unavailable, using fallback: %v", exerciseID, err)
		e.observe(func(m *metrics.Manager) {
			m.CounterDetailFallbacks.Inc()
		})
		return training.FallbackDetail(exerciseID)
	}

	if e.details != nil {
		e.details.Set(*detail)
	}
	return *detail
}

func (e *Engine) halt(cause error) error {
	err := fmt.Errorf("%w: %w", ErrDayLoad, cause)
	e.mu.Lock()
	e.haltErr = err
	e.mu.Unlock()
	e.logger.Errorf("training day halted: %s", cause)
	return err
}

func (e *Engine) haltedErr() error {
	return fmt.Errorf("%w: %w", ErrHalted, e.haltErr)
}

// DayEnded reports whether the local day the engine was loaded for is over.
// Such an engine is halted.
func (e *Engine) DayEnded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkDayLocked()
	return errors.Is(e.haltErr, ErrDayEnded)
}

// checkDayLocked halts a loaded engine once the clock leaves its local day.
// Today's records, the history and the session all belong to that day.
func (e *Engine) checkDayLocked() {
	if !e.loaded || e.haltErr != nil {
		return
	}
	if training.InDay(e.now(), e.dayStart, e.dayEnd) {
		return
	}
	e.haltErr = fmt.Errorf("%w: %w", ErrDayLoad, ErrDayEnded)
	e.logger.Warnf("local training day [%s] ended, engine halted", e.dayStart.Format(time.DateOnly))
}

func (e *Engine) readyErrLocked() error {
	e.checkDayLocked()
	if e.haltErr != nil {
		return e.haltedErr()
	}
	if !e.loaded {
		return ErrNotLoaded
	}
	return nil
}

func (e *Engine) nextTicket() uint64 {
	e.issuedTicket++
	return e.issuedTicket
}

// applyRecordsLocked replaces today's records, unless a newer ticket was applied already.
func (e *Engine) applyRecordsLocked(ticket uint64, records []training.SetRecord) bool {
	if ticket <= e.appliedTicket {
		e.logger.Debugf("discarding outdated set records response [ticket %d <= %d]", ticket, e.appliedTicket)
		e.observe(func(m *metrics.Manager) {
			m.CounterStaleRefetches.Inc()
		})
		return false
	}
	e.appliedTicket = ticket

	today := make([]training.SetRecord, 0, len(records))
	for _, rec := range training.TodayRecords(records, e.dayStart, e.dayEnd) {
		if _, ok := e.assignments[rec.ExerciseAssignmentID]; !ok {
			continue
		}
		today = append(today, rec)
	}
	if !sameRecordIDs(e.today, today) {
		e.recordsRev++
	}
	e.today = today
	e.rebuildCommittedLocked()
	return true
}

func (e *Engine) removeRecordLocked(id int64) {
	kept := e.today[:0]
	for _, rec := range e.today {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) != len(e.today) {
		e.recordsRev++
	}
	e.today = kept
	e.rebuildCommittedLocked()
}

func (e *Engine) hasRecordLocked(id int64) bool {
	for _, rec := range e.today {
		if rec.ID == id {
			return true
		}
	}
	return false
}

// rebuildCommittedLocked indexes today's records by slot. A slot with more
// than one record is a duplicate; the lowest id backs the slot.
func (e *Engine) rebuildCommittedLocked() {
	committed := make(map[int64]map[int]training.SetRecord)
	groups := make(map[slotKey][]int64)
	for _, rec := range e.today {
		key := slotKey{rec.ExerciseAssignmentID, rec.SetNumber}
		groups[key] = append(groups[key], rec.ID)

		bySet, ok := committed[rec.ExerciseAssignmentID]
		if !ok {
			bySet = make(map[int]training.SetRecord)
			committed[rec.ExerciseAssignmentID] = bySet
		}
		if cur, ok := bySet[rec.SetNumber]; !ok || rec.ID < cur.ID {
			bySet[rec.SetNumber] = rec
		}
	}
	e.committed = committed

	e.duplicates = e.duplicates[:0]
	for key, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		e.duplicates = append(e.duplicates, Duplicate{
			ExerciseID: key.exerciseID,
			SetNumber:  key.setNumber,
			RecordIDs:  ids,
		})
		if e.reportedDups[key] < len(ids) {
			e.reportedDups[key] = len(ids)
			e.logger.Errorf("duplicate set records for exercise %d set %d: %v", key.exerciseID, key.setNumber, ids)
			e.observe(func(m *metrics.Manager) {
				m.CounterDuplicateSets.Inc()
			})
		}
	}
	sort.Slice(e.duplicates, func(i, j int) bool {
		if e.duplicates[i].ExerciseID != e.duplicates[j].ExerciseID {
			return e.duplicates[i].ExerciseID < e.duplicates[j].ExerciseID
		}
		return e.duplicates[i].SetNumber < e.duplicates[j].SetNumber
	})
}

func (e *Engine) observe(f func(m *metrics.Manager)) {
	if e.metrics != nil {
		f(e.metrics)
	}
}

func sortedExercises(exercises []training.ExerciseAssignment) []training.ExerciseAssignment {
	sorted := append([]training.ExerciseAssignment(nil), exercises...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

func maxSetNumber(bySet map[int]training.SetRecord) int {
	maxNum := 0
	for n := range bySet {
		maxNum = max(maxNum, n)
	}
	return maxNum
}

func sameRecordIDs(a, b []training.SetRecord) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[int64]int, len(a))
	for _, rec := range a {
		ids[rec.ID]++
	}
	for _, rec := range b {
		if ids[rec.ID] == 0 {
			return false
		}
		ids[rec.ID]--
	}
	return true
}
