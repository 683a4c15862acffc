// Package api is the HTTP client for the interview backend. All
// operations take a context and return typed results; transport
// failures come back as *RequestError and non-2xx responses as
// *StatusError so callers can tell them apart.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 20 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HealthPath string
	Logger     *slog.Logger

	// CookiePath persists the auth session cookie between runs.
	// Empty keeps cookies in memory only.
	CookiePath string
}

// Client talks to the backend. It keeps a cookie jar so session
// cookies set by auth endpoints survive across calls, and optionally
// persists them so a login carries into later invocations.
type Client struct {
	baseURL    string
	base       *url.URL
	healthPath string
	cookiePath string
	httpClient *http.Client
	logger     *slog.Logger

	// retryWait is the pause between voice upload attempts. Tests
	// shorten it.
	retryWait time.Duration
}

// New builds a Client. BaseURL must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, &ValidationError{Field: "base_url", Reason: "must not be empty"}
	}
	parsed, err := url.ParseRequestURI(base)
	if err != nil {
		return nil, &ValidationError{Field: "base_url", Reason: err.Error()}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	healthPath := opts.HealthPath
	if healthPath == "" {
		healthPath = "/api/health"
	}

	client := &Client{
		baseURL:    base,
		base:       parsed,
		healthPath: healthPath,
		cookiePath: opts.CookiePath,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		logger:     logger,
		retryWait:  time.Second,
	}
	client.loadCookies()
	return client, nil
}

// StartInterview opens a session. The server generates the question
// set up front, so this call can take several seconds.
func (c *Client) StartInterview(ctx context.Context, req StartRequest) (Session, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Session{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.JobRole) == "" {
		return Session{}, &ValidationError{Field: "job_role", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.InterviewType) == "" {
		return Session{}, &ValidationError{Field: "interview_type", Reason: "must not be empty"}
	}

	var session Session
	if err := c.postJSON(ctx, "start interview", "/api/mock-interview/start-interview", req, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Interact submits the candidate's answer text for the current
// question and returns the server's intent-classified reply.
func (c *Client) Interact(ctx context.Context, sessionID, userInput string) (InteractResponse, error) {
	body := map[string]string{
		"session_id": sessionID,
		"user_input": userInput,
	}

	var resp InteractResponse
	if err := c.postJSON(ctx, "interact", "/api/mock-interview/interact", body, &resp); err != nil {
		return InteractResponse{}, err
	}
	return resp, nil
}

// NextQuestion skips to the next main question without evaluating an
// answer. Any pending follow-ups are discarded server-side.
func (c *Client) NextQuestion(ctx context.Context, sessionID string) (NextQuestionResponse, error) {
	body := map[string]string{"session_id": sessionID}

	var resp NextQuestionResponse
	if err := c.postJSON(ctx, "next question", "/api/mock-interview/next-question", body, &resp); err != nil {
		return NextQuestionResponse{}, err
	}
	return resp, nil
}

// EndInterview closes the session and returns the scored summary.
func (c *Client) EndInterview(ctx context.Context, sessionID string) (Summary, error) {
	body := map[string]string{"session_id": sessionID}

	var summary Summary
	if err := c.postJSON(ctx, "end interview", "/api/mock-interview/end-interview", body, &summary); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Chat asks the preparation assistant a free-form question.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", &ValidationError{Field: "message", Reason: "must not be empty"}
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "chat", "/api/chatbot", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &StatusError{Op: "chat", StatusCode: http.StatusOK, Message: resp.Message}
	}
	return resp.Response, nil
}

// Questions fetches the practice question bank for an interview type
// and skill.
func (c *Client) Questions(ctx context.Context, interviewType, skill string) ([]string, error) {
	path := fmt.Sprintf("/api/questions/%s/%s", url.PathEscape(interviewType), url.PathEscape(skill))

	var resp questionsResponse
	if err := c.getJSON(ctx, "questions", path, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// Evaluate scores a typed answer against the rubric for the question.
func (c *Client) Evaluate(ctx context.Context, question, answer, jobTitle, skills string) (EvaluateResult, error) {
	if strings.TrimSpace(question) == "" {
		return EvaluateResult{}, &ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if strings.TrimSpace(answer) == "" {
		return EvaluateResult{}, &ValidationError{Field: "answer", Reason: "must not be empty"}
	}

	body := map[string]string{
		"question":  question,
		"answer":    answer,
		"job_title": jobTitle,
		"skills":    skills,
	}

	var result EvaluateResult
	if err := c.postJSON(ctx, "evaluate", "/api/evaluate", body, &result); err != nil {
		return EvaluateResult{}, err
	}
	return result, nil
}

// Health pings the configured health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.getJSON(ctx, "health", c.healthPath, &resp); err != nil {
		return err
	}
	if !resp.Success && resp.Status != "healthy" {
		return &StatusError{Op: "health", StatusCode: http.StatusOK, Message: resp.Message}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "request_id", requestID, "error", err)
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds())

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage extracts the server's error text from a failure body.
// The backend uses "error" for interview endpoints and "message"
// elsewhere.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
