package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=plans_mocks_test.go -package=plans_test

type plansRepo interface {
	GetWorkoutDay(ctx context.Context, id int64) (*training.WorkoutDay, error)
	GetExerciseDetail(ctx context.Context, id int64) (*training.ExerciseDetail, error)
}

type Handler struct {
	repo plansRepo
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.getDay")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["dayId"], 10, 64)
	if err != nil {
		http.Error(w, "error, day id NaN", http.StatusBadRequest)
		return
	}

	day, err := handler.repo.GetWorkoutDay(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDayNotFound) {
			http.Error(w, "workout day not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout day %d: %s", id, err)
		http.Error(w, "failed to get workout day", http.StatusInternalServerError)
		return
	}

	dayJson, err := json.Marshal(day)
	if err != nil {
		log.Errorf("failed to marshal workout day: %s", err)
		http.Error(w, "failed to marshal workout day", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dayJson, http.StatusOK)
}

func (handler *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.getExercise")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["exerciseId"], 10, 64)
	if err != nil {
		http.Error(w, "error, exercise id NaN", http.StatusBadRequest)
		return
	}

	detail, err := handler.repo.GetExerciseDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %d: %s", id, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	detailJson, err := json.Marshal(detail)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		http.Error(w, "failed to marshal exercise", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, detailJson, http.StatusOK)
}
