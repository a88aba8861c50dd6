package dayview

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training/gesture"
	"github.com/2beens/fitcoach/internal/training/setlog"
	"github.com/2beens/fitcoach/pkg"
)

type DraftRequest struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
}

type BodyweightRequest struct {
	Bodyweight bool `json:"bodyweight"`
}

type CompletionRequest struct {
	Completed bool `json:"completed"`
}

const (
	GestureStart  = "start"
	GestureMove   = "move"
	GestureEnd    = "end"
	GestureCancel = "cancel"
)

type GestureRequest struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
}

type GestureResponse struct {
	Offset  float64 `json:"offset"`
	Deleted bool    `json:"deleted"`
}

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
	}
}

// SetupRoutes mounts the day view routes on r.
func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/day/{dayId}", h.HandleGetDay).Methods("GET", "OPTIONS").Name("day-view")
	r.HandleFunc("/day/{dayId}/refresh", h.HandleRefresh).Methods("POST", "OPTIONS").Name("day-refresh")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/set/{setNo}/draft", h.HandleSetDraft).Methods("PUT", "OPTIONS").Name("day-draft")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/bodyweight", h.HandleSetBodyweight).Methods("PUT", "OPTIONS").Name("day-bodyweight")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/set/{setNo}/commit", h.HandleCommit).Methods("POST", "OPTIONS").Name("day-commit")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/set/{setNo}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("day-delete")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/slots", h.HandleAddSlot).Methods("POST", "OPTIONS").Name("day-add-slot")
	r.HandleFunc("/day/{dayId}/completion", h.HandleCompletion).Methods("PUT", "OPTIONS").Name("day-completion")
	r.HandleFunc("/day/{dayId}/exercise/{exId}/set/{setNo}/gesture", h.HandleGesture).Methods("POST", "OPTIONS").Name("day-gesture")
}

func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	hosted, ok := h.hosted(w, r)
	if !ok {
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dayview.refresh")
	defer span.End()

	hosted, ok := h.hosted(w, r.WithContext(ctx))
	if !ok {
		return
	}
	if err := hosted.Engine.Refresh(ctx); err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleSetDraft(w http.ResponseWriter, r *http.Request) {
	hosted, ok := h.hosted(w, r)
	if !ok {
		return
	}
	exID, setNo, ok := slotVars(w, r)
	if !ok {
		return
	}

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid draft", http.StatusBadRequest)
		return
	}

	if err := hosted.Engine.SetDraft(exID, setNo, req.Reps, req.Weight); err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleSetBodyweight(w http.ResponseWriter, r *http.Request) {
	hosted, ok := h.hosted(w, r)
	if !ok {
		return
	}
	exID, ok := exerciseVar(w, r)
	if !ok {
		return
	}

	var req BodyweightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid bodyweight flag", http.StatusBadRequest)
		return
	}

	if err := hosted.Engine.SetBodyweight(exID, req.Bodyweight); err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dayview.commit")
	defer span.End()

	hosted, ok := h.hosted(w, r.WithContext(ctx))
	if !ok {
		return
	}
	exID, setNo, ok := slotVars(w, r)
	if !ok {
		return
	}

	// a stale view after a created record is still a successful commit
	if _, err := hosted.Engine.Commit(ctx, exID, setNo); err != nil && !errors.Is(err, setlog.ErrStale) {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dayview.delete")
	defer span.End()

	hosted, ok := h.hosted(w, r.WithContext(ctx))
	if !ok {
		return
	}
	exID, setNo, ok := slotVars(w, r)
	if !ok {
		return
	}

	if err := hosted.Engine.Delete(ctx, exID, setNo); err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleAddSlot(w http.ResponseWriter, r *http.Request) {
	hosted, ok := h.hosted(w, r)
	if !ok {
		return
	}
	exID, ok := exerciseVar(w, r)
	if !ok {
		return
	}

	added, err := hosted.Engine.AddSlot(exID)
	if err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	if !added {
		http.Error(w, "last set has an uncommitted draft", http.StatusConflict)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dayview.completion")
	defer span.End()

	hosted, ok := h.hosted(w, r.WithContext(ctx))
	if !ok {
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid completion", http.StatusBadRequest)
		return
	}

	if err := hosted.Engine.ToggleCompletion(ctx, req.Completed); err != nil {
		writeError(w, hosted.Engine, err)
		return
	}
	writeView(w, hosted.Engine.View(), http.StatusOK)
}

func (h *Handler) HandleGesture(w http.ResponseWriter, r *http.Request) {
	hosted, ok := h.hosted(w, r)
	if !ok {
		return
	}
	exID, setNo, ok := slotVars(w, r)
	if !ok {
		return
	}

	var req GestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid gesture", http.StatusBadRequest)
		return
	}

	key := gesture.Key{ExerciseID: exID, SetNumber: setNo}
	var resp GestureResponse
	switch req.Phase {
	case GestureStart:
		hosted.Gestures.TouchStart(key, req.X)
	case GestureMove:
		resp.Offset = hosted.Gestures.TouchMove(key, req.X)
	case GestureEnd:
		deleted, err := hosted.Gestures.TouchEnd(r.Context(), key)
		if err != nil {
			writeError(w, hosted.Engine, err)
			return
		}
		resp.Deleted = deleted
	case GestureCancel:
		hosted.Gestures.Cancel(key)
	default:
		http.Error(w, "unknown gesture phase", http.StatusBadRequest)
		return
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal gesture response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// hosted resolves the engine the request acts on. Trainers may pass client_id
// to work on a client's day. It writes the error response itself.
func (h *Handler) hosted(w http.ResponseWriter, r *http.Request) (*Hosted, bool) {
	dayID, err := strconv.ParseInt(mux.Vars(r)["dayId"], 10, 64)
	if err != nil {
		http.Error(w, "error, day id NaN", http.StatusBadRequest)
		return nil, false
	}

	ac, err := auth.FromContext(r.Context())
	if err != nil {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return nil, false
	}
	if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			http.Error(w, "error, client id NaN", http.StatusBadRequest)
			return nil, false
		}
		if !ac.CanActFor(clientID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return nil, false
		}
		ac.ClientID = clientID
	}

	hosted, err := h.registry.Get(r.Context(), ac, dayID)
	if err != nil {
		writeError(w, hosted.Engine, err)
		return nil, false
	}
	return hosted, true
}

func exerciseVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	exID, err := strconv.ParseInt(mux.Vars(r)["exId"], 10, 64)
	if err != nil {
		http.Error(w, "error, exercise id NaN", http.StatusBadRequest)
		return 0, false
	}
	return exID, true
}

func slotVars(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	exID, ok := exerciseVar(w, r)
	if !ok {
		return 0, 0, false
	}
	setNo, err := strconv.Atoi(mux.Vars(r)["setNo"])
	if err != nil {
		http.Error(w, "error, set number NaN", http.StatusBadRequest)
		return 0, 0, false
	}
	return exID, setNo, true
}

// ErrorStatus maps engine errors to response codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, setlog.ErrValidation), errors.Is(err, setlog.ErrUnknownExercise):
		return http.StatusBadRequest
	case errors.Is(err, setlog.ErrCommitInFlight):
		return http.StatusConflict
	case errors.Is(err, setlog.ErrHalted), errors.Is(err, setlog.ErrDayLoad), errors.Is(err, setlog.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// writeError answers with the halted page view when the day cannot be served,
// and with a plain message otherwise.
func writeError(w http.ResponseWriter, engine *setlog.Engine, err error) {
	status := ErrorStatus(err)
	if status == http.StatusServiceUnavailable && engine != nil {
		writeView(w, engine.View(), status)
		return
	}
	if status == http.StatusBadGateway {
		log.Errorf("training day backend failure: %s", err)
	}
	http.Error(w, err.Error(), status)
}

func writeView(w http.ResponseWriter, view setlog.DayView, status int) {
	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("failed to marshal day view: %s", err)
		http.Error(w, "failed to marshal day view", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, viewJson, status)
}
