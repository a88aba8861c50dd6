package sets

import (
	"context"
	"encoding/json"
	"errors"
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

//go:generate mockgen -source=$GOFILE -destination=sets_mocks_test.go -package=sets_test

type setsRepo interface {
	Add(ctx context.Context, rec training.NewSetRecord) (*training.SetRecord, error)
	Get(ctx context.Context, id int64) (*training.SetRecord, error)
	Delete(ctx context.Context, id int64) error
	ListDay(ctx context.Context, clientID, dayID int64) ([]training.SetRecord, error)
	ListExercise(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error)
}

type DeleteSetResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type Handler struct {
	repo setsRepo
}

func NewHandler(repo setsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleListDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.listDay")
	defer span.End()

	dayID, err := strconv.ParseInt(mux.Vars(r)["dayId"], 10, 64)
	if err != nil {
		http.Error(w, "error, day id NaN", http.StatusBadRequest)
		return
	}
	clientID, ok := authorizedClientID(w, r)
	if !ok {
		return
	}

	records, err := handler.repo.ListDay(ctx, clientID, dayID)
	if err != nil {
		log.Errorf("failed to list set records of client %d day %d: %s", clientID, dayID, err)
		http.Error(w, "failed to list set records", http.StatusInternalServerError)
		return
	}

	writeRecords(w, records)
}

func (handler *Handler) HandleListExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.listExercise")
	defer span.End()

	assignmentID, err := strconv.ParseInt(mux.Vars(r)["assignmentId"], 10, 64)
	if err != nil {
		http.Error(w, "error, assignment id NaN", http.StatusBadRequest)
		return
	}
	clientID, ok := authorizedClientID(w, r)
	if !ok {
		return
	}

	records, err := handler.repo.ListExercise(ctx, clientID, assignmentID)
	if err != nil {
		log.Errorf("failed to list set records of client %d assignment %d: %s", clientID, assignmentID, err)
		http.Error(w, "failed to list set records", http.StatusInternalServerError)
		return
	}

	writeRecords(w, records)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	ac, err := auth.FromContext(ctx)
	if err != nil {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var rec training.NewSetRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Tracef("new set record, unmarshal json params: %s", err)
		http.Error(w, "add set record failed", http.StatusBadRequest)
		return
	}
	if rec.ClientID == 0 {
		rec.ClientID = ac.ClientID
	}
	if !ac.CanActFor(rec.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := rec.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrAssignmentMismatch) || errors.Is(err, training.ErrInvalidSetRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add set record [%d/%d]: %s", rec.ExerciseAssignmentID, rec.SetNumber, err)
		http.Error(w, "error, failed to add set record", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal new set record: %s", err)
		http.Error(w, "error, failed to add set record", http.StatusInternalServerError)
		return
	}

	log.Debugf("new set record added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.delete")
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

	rec, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSetRecordNotFound) {
			http.Error(w, "set record not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get set record %d: %s", id, err)
		http.Error(w, "failed to delete set record", http.StatusInternalServerError)
		return
	}
	if !ac.CanActFor(rec.ClientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSetRecordNotFound) {
			http.Error(w, "set record not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete set record %d: %s", id, err)
		http.Error(w, "failed to delete set record", http.StatusInternalServerError)
		return
	}

	resJson, err := json.Marshal(DeleteSetResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete set response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resJson)
}

// authorizedClientID resolves the client_id query param, defaulting to the caller.
// It writes the error response itself when the caller may not act for the client.
func authorizedClientID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ac, err := auth.FromContext(r.Context())
	if err != nil {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return 0, false
	}

	clientID := ac.ClientID
	if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
		clientID, err = strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			http.Error(w, "error, client id NaN", http.StatusBadRequest)
			return 0, false
		}
	}

	if !ac.CanActFor(clientID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return 0, false
	}
	return clientID, true
}

func writeRecords(w http.ResponseWriter, records []training.SetRecord) {
	if records == nil {
		records = []training.SetRecord{}
	}
	recordsJson, err := json.Marshal(records)
	if err != nil {
		log.Errorf("failed to marshal set records: %s", err)
		http.Error(w, "failed to marshal set records", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recordsJson)
}
