package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/interview-mate/pkg/config"
	"github.com/traego/interview-mate/pkg/interview"
	"github.com/traego/interview-mate/test/harness"
)

func newTestServer(t *testing.T, options ...InterviewServerOption) *harness.InterviewTestClient {
	t.Helper()

	srv, err := NewInterviewServer(config.TestConfig(), options...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Stop(context.Background())
	})

	return harness.NewInterviewTestClient(harness.WithBaseURL(ts.URL))
}

func TestHealthEndpoint(t *testing.T) {
	client := newTestServer(t)

	status, body, err := client.Do(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	client := newTestServer(t)

	status, body, err := client.Login("token-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["session_id"])
}

func TestLoginWithoutCredential(t *testing.T) {
	client := newTestServer(t)

	status, body, err := client.Login("")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "credential")
}

func TestRequestWithoutSessionCookie(t *testing.T) {
	client := newTestServer(t)

	status, _, err := client.Question()
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSetupBeforeLoginSessionExpired(t *testing.T) {
	client := newTestServer(t)

	// A cookie pointing at a session the store no longer has
	status, _, err := client.Login("token-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	status, _, err = client.Logout()
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, status)

	status, _, err = client.Setup("go", 2, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSetupDefaultsQuestionsPerRound(t *testing.T) {
	client := newTestServer(t)

	_, _, err := client.Login("token-1")
	require.NoError(t, err)

	status, body, err := client.Do(http.MethodPost, "/interview/setup", map[string]any{
		"topic": "distributed systems",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, config.TestConfig().Interview.DefaultQuestionsPerRound, body["questions_per_round"])
}

func TestAnswerWithoutQuestionConflicts(t *testing.T) {
	client := newTestServer(t)

	_, _, err := client.Login("token-1")
	require.NoError(t, err)
	_, _, err = client.Setup("go", 2, false)
	require.NoError(t, err)

	status, _, err := client.Answer("A1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, status)
}

func TestGenerationFailureMapsToBadGateway(t *testing.T) {
	client := newTestServer(t, WithActorFactory(func(credential string) (interview.Actor, error) {
		return failingActor{}, nil
	}))

	_, _, err := client.Login("token-1")
	require.NoError(t, err)
	_, _, err = client.Setup("go", 2, false)
	require.NoError(t, err)

	status, _, err := client.Question()
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestFullInterviewFlowOverHTTP(t *testing.T) {
	client := newTestServer(t)

	status, _, err := client.Login("token-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	status, body, err := client.Setup("backend engineering", 2, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["question_index"])
	assert.Equal(t, "awaiting_question", body["state"])

	status, body, err = client.Question()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	question := body["question"].(string)
	assert.NotEmpty(t, question)

	status, body, err = client.Answer("I would start with the data model.")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["feedback"])

	status, body, err = client.Continue()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["question_index"])

	status, _, err = client.Question()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	status, _, err = client.Answer("Second answer.")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	status, body, err = client.Continue()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	// End of round: the index wraps back to 1
	assert.EqualValues(t, 1, body["question_index"])

	status, body, err = client.End()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["interview_complete"])

	status, body, err = client.Summary()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "backend engineering", body["topic"])
	completed := body["completed_questions"].([]any)
	assert.Len(t, completed, 2)

	status, _, err = client.Logout()
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	status, _, err = client.Summary()
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServerWithUserRouter(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/custom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	srv, err := NewInterviewServer(config.TestConfig(), WithRouter(router))
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Stop(context.Background())
	})

	res, err := http.Get(ts.URL + "/custom")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusTeapot, res.StatusCode)

	// Interview routes are mounted on the provided router too
	res, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServerRequiresStoreConfiguration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Redis = nil
	cfg.Session.UseInMemory = false

	_, err := NewInterviewServer(cfg)
	require.Error(t, err)
}

type failingActor struct{}

func (failingActor) GenerateQuestion(context.Context, string, int, []string) (string, error) {
	return "", fmt.Errorf("model offline")
}

func (failingActor) GenerateFeedback(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("model offline")
}
