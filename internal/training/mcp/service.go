package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/training"
)

const (
	dateLayout         = "2006-01-02"
	DefaultHistoryDays = 10
	maxHistoryDays     = 90
)

var ErrInvalidDate = errors.New("invalid date")

// PlansRepo provides workout days and exercise details (for dependency injection and testing).
type PlansRepo interface {
	GetWorkoutDay(ctx context.Context, id int64) (*training.WorkoutDay, error)
	GetExerciseDetail(ctx context.Context, id int64) (*training.ExerciseDetail, error)
}

// SetsRepo provides set records of a client.
type SetsRepo interface {
	ListDay(ctx context.Context, clientID, dayID int64) ([]training.SetRecord, error)
	ListExercise(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error)
}

// contextService provides training context data. Used by Handler for testability.
type contextService interface {
	GetTrainingDay(ctx context.Context, clientID, dayID int64, date string) (*TrainingDay, error)
	GetExerciseHistory(ctx context.Context, clientID, assignmentID int64, days int) (*ExerciseHistory, error)
}

type ExerciseProgress struct {
	Assignment training.ExerciseAssignment `json:"assignment"`
	Name       string                      `json:"name"`
	Sets       []training.SetRecord        `json:"sets"`
	Committed  int                         `json:"committed"`
	Complete   bool                        `json:"complete"`
}

// TrainingDay is a workout day with the sets logged on one local date.
type TrainingDay struct {
	DayID     int64              `json:"dayId"`
	Name      string             `json:"name"`
	Notes     string             `json:"notes"`
	Date      string             `json:"date"`
	Exercises []ExerciseProgress `json:"exercises"`
	Complete  bool               `json:"complete"`
}

type HistoryDay struct {
	Date string               `json:"date"`
	Sets []training.SetRecord `json:"sets"`
}

type ExerciseHistory struct {
	AssignmentID int64        `json:"assignmentId"`
	Days         []HistoryDay `json:"days"` // newest first
}

// ContextService holds dependencies and implements the training context business logic.
type ContextService struct {
	plans PlansRepo
	sets  SetsRepo
	loc   *time.Location
	now   func() time.Time
}

// NewContextService builds a ContextService. Local dates are resolved in loc.
func NewContextService(plansRepo PlansRepo, setsRepo SetsRepo, loc *time.Location) *ContextService {
	if loc == nil {
		loc = time.UTC
	}
	return &ContextService{
		plans: plansRepo,
		sets:  setsRepo,
		loc:   loc,
		now:   time.Now,
	}
}

// GetTrainingDay returns the workout day, the sets logged on the given local
// date (YYYY-MM-DD, today when empty) and whether every exercise reached its target.
func (s *ContextService) GetTrainingDay(ctx context.Context, clientID, dayID int64, date string) (*TrainingDay, error) {
	at := s.now()
	if date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
		}
		at = parsed
	}

	day, err := s.plans.GetWorkoutDay(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("get workout day: %w", err)
	}
	records, err := s.sets.ListDay(ctx, clientID, dayID)
	if err != nil {
		return nil, fmt.Errorf("list day sets: %w", err)
	}

	dayStart, dayEnd := training.DayBounds(at, s.loc)
	byAssignment := map[int64][]training.SetRecord{}
	for _, r := range training.TodayRecords(records, dayStart, dayEnd) {
		byAssignment[r.ExerciseAssignmentID] = append(byAssignment[r.ExerciseAssignmentID], r)
	}

	exercises := append([]training.ExerciseAssignment(nil), day.Exercises...)
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].Position < exercises[j].Position
	})

	result := &TrainingDay{
		DayID:     day.ID,
		Name:      day.Name,
		Notes:     day.Notes,
		Date:      dayStart.Format(dateLayout),
		Exercises: make([]ExerciseProgress, 0, len(exercises)),
		Complete:  len(exercises) > 0,
	}
	for _, ex := range exercises {
		sets := byAssignment[ex.ID]
		setNumbers := map[int]bool{}
		for _, r := range sets {
			setNumbers[r.SetNumber] = true
		}

		progress := ExerciseProgress{
			Assignment: ex,
			Name:       s.exerciseName(ctx, ex.ExerciseID),
			Sets:       sets,
			Committed:  len(setNumbers),
		}
		if progress.Sets == nil {
			progress.Sets = []training.SetRecord{}
		}
		progress.Complete = ex.TargetSets > 0 && progress.Committed >= ex.TargetSets
		if !progress.Complete {
			result.Complete = false
		}
		result.Exercises = append(result.Exercises, progress)
	}

	return result, nil
}

func (s *ContextService) exerciseName(ctx context.Context, exerciseID int64) string {
	detail, err := s.plans.GetExerciseDetail(ctx, exerciseID)
	if err != nil || detail == nil {
		return training.FallbackDetail(exerciseID).Name
	}
	return detail.Name
}

// GetExerciseHistory returns the sets of one exercise assignment grouped by
// local date, for the latest days on which it was trained.
func (s *ContextService) GetExerciseHistory(ctx context.Context, clientID, assignmentID int64, days int) (*ExerciseHistory, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	records, err := s.sets.ListExercise(ctx, clientID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list exercise sets: %w", err)
	}

	byDate := map[string][]training.SetRecord{}
	for _, r := range records {
		date := r.CompletedAt.In(s.loc).Format(dateLayout)
		byDate[date] = append(byDate[date], r)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// the layout sorts lexically in date order
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > days {
		dates = dates[:days]
	}

	history := &ExerciseHistory{
		AssignmentID: assignmentID,
		Days:         make([]HistoryDay, 0, len(dates)),
	}
	for _, date := range dates {
		sets := byDate[date]
		sort.SliceStable(sets, func(i, j int) bool {
			return sets[i].SetNumber < sets[j].SetNumber
		})
		history.Days = append(history.Days, HistoryDay{Date: date, Sets: sets})
	}
	return history, nil
}
