package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	client.retryWait = 10 * time.Millisecond

	return client, server
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	_, err := New(Options{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "base_url", verr.Field)
}

func TestStartInterviewValidatesName(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the server")
	}))

	_, err := client.StartInterview(context.Background(), StartRequest{
		Name:          "   ",
		JobRole:       "AI Engineer",
		InterviewType: "Conceptual",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Field)
}

func TestStartInterviewDecodesSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/mock-interview/start-interview", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req StartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Aisha", req.Name)

		json.NewEncoder(w).Encode(Session{
			SessionID:      "s-1",
			InterviewType:  "Behavioral",
			FirstQuestion:  "Tell me about a conflict you resolved.",
			TotalQuestions: 5,
			WelcomeMessage: "Welcome, Aisha!",
		})
	}))

	session, err := client.StartInterview(context.Background(), StartRequest{
		Name:          "Aisha",
		JobRole:       "AI Engineer",
		InterviewType: "Behavioral",
	})
	require.NoError(t, err)
	require.Equal(t, "s-1", session.SessionID)
	require.Equal(t, 5, session.TotalQuestions)
	require.Equal(t, "Welcome, Aisha!", session.WelcomeMessage)
}

func TestInteractSurfacesServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid session_id"})
	}))

	_, err := client.Interact(context.Background(), "stale", "my answer")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusNotFound, serr.StatusCode)
	require.Equal(t, "Invalid session_id", serr.Message)
}

func TestInteractDecodesIntentReply(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "s-1", body["session_id"])
		require.Equal(t, "recursion calls itself", body["user_input"])

		json.NewEncoder(w).Encode(InteractResponse{
			Intent:         IntentNormalAnswer,
			SessionID:      "s-1",
			Message:        "Great, let's move on.",
			Feedback:       "Good concise answer.",
			NextQuestion:   "What is dynamic programming?",
			QuestionNumber: 2,
		})
	}))

	resp, err := client.Interact(context.Background(), "s-1", "recursion calls itself")
	require.NoError(t, err)
	require.Equal(t, OutcomeAnswer, resp.Outcome())
	require.Equal(t, "What is dynamic programming?", resp.NextQuestionText())
	require.Equal(t, "Good concise answer.", resp.FeedbackText())
}

func TestEndInterviewDecodesSummary(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/mock-interview/end-interview", r.URL.Path)
		json.NewEncoder(w).Encode(Summary{
			SessionID:     "s-1",
			Name:          "Aisha",
			JobRole:       "AI Engineer",
			InterviewType: "Conceptual",
			OverallScores: map[string]string{
				"Technical Accuracy": "Score: 7.5/10",
			},
			AreasOfImprovement: map[string]string{
				"Clarity": "Slow down and structure answers.",
			},
		})
	}))

	summary, err := client.EndInterview(context.Background(), "s-1")
	require.NoError(t, err)
	require.Equal(t, "Score: 7.5/10", summary.OverallScores["Technical Accuracy"])
	require.Equal(t, "Slow down and structure answers.", summary.AreasOfImprovement["Clarity"])
}

func TestQuestionsEscapesPathSegments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/questions/technical/machine%20learning", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(questionsResponse{
			Success:   true,
			Questions: []string{"Explain overfitting."},
		})
	}))

	questions, err := client.Questions(context.Background(), "technical", "machine learning")
	require.NoError(t, err)
	require.Equal(t, []string{"Explain overfitting."}, questions)
}

func TestChatReturnsAssistantText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chatbot", r.URL.Path)
		json.NewEncoder(w).Encode(chatResponse{Success: true, Response: "Use the STAR method."})
	}))

	reply, err := client.Chat(context.Background(), ChatRequest{Message: "How do I answer behavioral questions?"})
	require.NoError(t, err)
	require.Equal(t, "Use the STAR method.", reply)
}

func TestHealthAcceptsHealthyStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		json.NewEncoder(w).Encode(healthResponse{Success: true, Status: "healthy"})
	}))

	require.NoError(t, client.Health(context.Background()))
}

func TestTransportFailureIsRequestError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := New(Options{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)
	server.Close()

	err = client.Health(context.Background())

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.True(t, errors.Is(err, reqErr.Err))
}
