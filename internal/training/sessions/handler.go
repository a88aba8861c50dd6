package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=sessions_test

type sessionsRepo interface {
	GetOrCreate(ctx context.Context, ns training.NewSession) (*training.Session, error)
	Get(ctx context.Context, id int64) (*training.Session, error)
	Update(ctx context.Context, id int64, update training.SessionUpdate) error
}

type UpdateSessionResponse struct {
	UpdatedID int64 `json:"updatedId"`
}

type Handler struct {
	repo sessionsRepo
}

func NewHandler(repo sessionsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleGetOrCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.getOrCreate")
	defer span.End()

	ac, err := auth.FromContext(ctx)
	if err != nil {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var ns training.NewSession
	if err := json.NewDecoder(r.Body).Decode(&ns); err != nil {
		http.Error(w, "invalid session data", http.StatusBadRequest)
		return
	}
	if ns.ClientID == 0 {
		ns.ClientID = ac.ClientID
	}
	if !ac.CanActFor(ns.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if ns.WorkoutDayID <= 0 {
		http.Error(w, "error, workout day id missing", http.StatusBadRequest)
		return
	}
	if ns.DayStart.IsZero() || !ns.DayEnd.After(ns.DayStart) {
		http.Error(w, "error, invalid day bounds", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.GetOrCreate(ctx, ns)
	if err != nil {
		log.Errorf("failed to get or create session [client %d, day %d]: %s", ns.ClientID, ns.WorkoutDayID, err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal session: %s", err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.update")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}
	ac, err := auth.FromContext(ctx)
	if err != nil {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var update training.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid session update", http.StatusBadRequest)
		return
	}
	if update.IsCompleted && update.CompletedAt == nil {
		now := time.Now()
		update.CompletedAt = &now
	}
	if !update.IsCompleted {
		update.CompletedAt = nil
	}

	session, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get session %d: %s", id, err)
		http.Error(w, "failed to update session", http.StatusInternalServerError)
		return
	}
	if !ac.CanActFor(session.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := handler.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update session %d: %s", id, err)
		http.Error(w, "failed to update session", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"updatedId":%d}`, id))
}
