package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockContextService implements contextService for tests.
type mockContextService struct {
	day        *TrainingDay
	dayErr     error
	history    *ExerciseHistory
	historyErr error
	gotDate    string
	gotDays    int
}

func (m *mockContextService) GetTrainingDay(_ context.Context, _, _ int64, date string) (*TrainingDay, error) {
	m.gotDate = date
	return m.day, m.dayErr
}

func (m *mockContextService) GetExerciseHistory(_ context.Context, _, _ int64, days int) (*ExerciseHistory, error) {
	m.gotDays = days
	return m.history, m.historyErr
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_GetTrainingDayTool(t *testing.T) {
	t.Run("requires_ids", func(t *testing.T) {
		fn := NewHandler(&mockContextService{}).GetTrainingDayTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, TrainingDayInput{DayID: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
	})

	t.Run("returns_day", func(t *testing.T) {
		svc := &mockContextService{day: &TrainingDay{DayID: 2, Name: "Pull", Date: "2026-10-18", Complete: true}}
		fn := NewHandler(svc).GetTrainingDayTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, TrainingDayInput{ClientID: 1, DayID: 2, Date: "2026-10-18"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if svc.gotDate != "2026-10-18" {
			t.Fatalf("date = %q", svc.gotDate)
		}
		var day TrainingDay
		if err := json.Unmarshal([]byte(resultText(t, res)), &day); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if day.Name != "Pull" || !day.Complete {
			t.Fatalf("unexpected day: %+v", day)
		}
	})

	t.Run("invalid_date", func(t *testing.T) {
		svc := &mockContextService{dayErr: fmt.Errorf("%w: 18.10.", ErrInvalidDate)}
		fn := NewHandler(svc).GetTrainingDayTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, TrainingDayInput{ClientID: 1, DayID: 2, Date: "18.10."})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); text != "Invalid date: use YYYY-MM-DD" {
			t.Fatalf("content text = %q", text)
		}
	})

	t.Run("returns_error_when_service_fails", func(t *testing.T) {
		svc := &mockContextService{dayErr: errors.New("db gone")}
		fn := NewHandler(svc).GetTrainingDayTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, TrainingDayInput{ClientID: 1, DayID: 2})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); text != "Error fetching training day: db gone" {
			t.Fatalf("content text = %q", text)
		}
	})
}

func TestHandler_GetExerciseHistoryTool(t *testing.T) {
	t.Run("requires_ids", func(t *testing.T) {
		fn := NewHandler(&mockContextService{}).GetExerciseHistoryTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseHistoryInput{ClientID: 1})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
	})

	t.Run("returns_history", func(t *testing.T) {
		svc := &mockContextService{history: &ExerciseHistory{AssignmentID: 9, Days: []HistoryDay{{Date: "2026-10-17"}}}}
		fn := NewHandler(svc).GetExerciseHistoryTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseHistoryInput{ClientID: 1, AssignmentID: 9, Days: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if svc.gotDays != 3 {
			t.Fatalf("days = %d", svc.gotDays)
		}
		var history ExerciseHistory
		if err := json.Unmarshal([]byte(resultText(t, res)), &history); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if history.AssignmentID != 9 || len(history.Days) != 1 {
			t.Fatalf("unexpected history: %+v", history)
		}
	})

	t.Run("returns_error_when_service_fails", func(t *testing.T) {
		svc := &mockContextService{historyErr: errors.New("connection refused")}
		fn := NewHandler(svc).GetExerciseHistoryTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseHistoryInput{ClientID: 1, AssignmentID: 9})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if text := resultText(t, res); text != "Error fetching exercise history: connection refused" {
			t.Fatalf("content text = %q", text)
		}
	})
}
