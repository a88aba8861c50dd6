// Package apiclient talks to the training REST API. It implements the
// backend the set logging engine reconciles against.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/training"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrNotFound = errors.New("not found")

// UserAgent identifies the client to the backend cors check.
const UserAgent = "setlog/1.0"

// StatusError is returned for non 2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	authCtx    auth.Context
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, authCtx auth.Context, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		authCtx: authCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token, returning a client acting with it.
func Login(ctx context.Context, baseURL string, creds auth.Credentials, opts ...Option) (*Client, error) {
	c := New(baseURL, auth.Context{}, opts...)

	var resp auth.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/a/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.authCtx = auth.Context{
		ClientID: resp.ClientID,
		Token:    resp.Token,
		Role:     resp.Role,
	}
	return c, nil
}

func (c *Client) AuthContext() auth.Context {
	return c.authCtx
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/a/logout", nil, nil)
}

func (c *Client) GetWorkoutDay(ctx context.Context, dayID int64) (*training.WorkoutDay, error) {
	var day training.WorkoutDay
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/training/days/%d", dayID), nil, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

func (c *Client) GetExerciseDetail(ctx context.Context, exerciseID int64) (*training.ExerciseDetail, error) {
	var detail training.ExerciseDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/training/exercises/%d", exerciseID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) ListDaySetRecords(ctx context.Context, clientID, workoutDayID int64) ([]training.SetRecord, error) {
	var records []training.SetRecord
	path := fmt.Sprintf("/training/sets/day/%d?%s", workoutDayID, clientQuery(clientID))
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) ListExerciseSetRecords(ctx context.Context, clientID, assignmentID int64) ([]training.SetRecord, error) {
	var records []training.SetRecord
	path := fmt.Sprintf("/training/sets/exercise/%d?%s", assignmentID, clientQuery(clientID))
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CreateSetRecord(ctx context.Context, rec training.NewSetRecord) (*training.SetRecord, error) {
	var created training.SetRecord
	if err := c.do(ctx, http.MethodPost, "/training/sets", rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteSetRecord(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/training/sets/%d", id), nil, nil)
}

func (c *Client) GetOrCreateSession(ctx context.Context, clientID, workoutDayID int64, dayStart, dayEnd time.Time) (*training.Session, error) {
	var session training.Session
	ns := training.NewSession{
		ClientID:     clientID,
		WorkoutDayID: workoutDayID,
		DayStart:     dayStart,
		DayEnd:       dayEnd,
	}
	if err := c.do(ctx, http.MethodPost, "/training/sessions", ns, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdateSession(ctx context.Context, id int64, update training.SessionUpdate) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/training/sessions/%d", id), update, nil)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		reqJson, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(reqJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", UserAgent)
	if c.authCtx.Token != "" {
		req.Header.Set(auth.TokenHeader, c.authCtx.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBytes)),
		}
	}

	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, respBody); err != nil {
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}

func clientQuery(clientID int64) string {
	return url.Values{"client_id": []string{strconv.FormatInt(clientID, 10)}}.Encode()
}
