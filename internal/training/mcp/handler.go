package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// TrainingDayInput is the input for get_training_day.
type TrainingDayInput struct {
	ClientID int64  `json:"client_id" jsonschema:"Client whose sets are shown"`
	DayID    int64  `json:"day_id" jsonschema:"Workout day id"`
	Date     string `json:"date,omitempty" jsonschema:"Local date (YYYY-MM-DD), defaults to today"`
}

// GetTrainingDayTool returns the MCP tool handler for get_training_day.
func (h *Handler) GetTrainingDayTool() func(context.Context, *mcp.CallToolRequest, TrainingDayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TrainingDayInput) (*mcp.CallToolResult, any, error) {
		if in.ClientID <= 0 || in.DayID <= 0 {
			return errorResult("client_id and day_id are required"), nil, nil
		}

		day, err := h.service.GetTrainingDay(ctx, in.ClientID, in.DayID, in.Date)
		if errors.Is(err, ErrInvalidDate) {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		if err != nil {
			return errorResult("Error fetching training day: " + err.Error()), nil, nil
		}
		return jsonResult(day), nil, nil
	}
}

// ExerciseHistoryInput is the input for get_exercise_history.
type ExerciseHistoryInput struct {
	ClientID     int64 `json:"client_id" jsonschema:"Client whose sets are shown"`
	AssignmentID int64 `json:"assignment_id" jsonschema:"Exercise assignment id within a workout day"`
	Days         int   `json:"days,omitempty" jsonschema:"Number of latest training dates to return (default 10)"`
}

// GetExerciseHistoryTool returns the MCP tool handler for get_exercise_history.
func (h *Handler) GetExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
		if in.ClientID <= 0 || in.AssignmentID <= 0 {
			return errorResult("client_id and assignment_id are required"), nil, nil
		}

		history, err := h.service.GetExerciseHistory(ctx, in.ClientID, in.AssignmentID, in.Days)
		if err != nil {
			return errorResult("Error fetching exercise history: " + err.Error()), nil, nil
		}
		return jsonResult(history), nil, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
