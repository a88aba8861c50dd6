package mcp

import (
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/fitcoach/internal/auth"
)

// NewServer builds an MCP server with training tools: a day with its logged sets, and exercise history.
// Mounted by the main backend at /mcp, and served over stdio by cmd/training_mcp.
func NewServer(plansRepo PlansRepo, setsRepo SetsRepo, loc *time.Location) *mcp.Server {
	h := NewHandler(NewContextService(plansRepo, setsRepo, loc))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitcoach-training",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_training_day",
		Description: "Returns a workout day with its planned exercises, the sets a client logged on one local date (default today) and whether each exercise and the whole day reached the target sets. Args: client_id, day_id; optional: date (YYYY-MM-DD).",
	}, h.GetTrainingDayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_history",
		Description: "Returns the sets a client logged for one exercise assignment, grouped by local date, newest first. Args: client_id, assignment_id; optional: days (default 10). Use when you need progression of reps and weight over time.",
	}, h.GetExerciseHistoryTool())

	return s
}

// NewHTTPHandler serves the server over streamable HTTP. Only trainers may use it.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, err := auth.FromContext(r.Context())
		if err != nil || ac.Role != auth.RoleTrainer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		streamable.ServeHTTP(w, r)
	})
}
