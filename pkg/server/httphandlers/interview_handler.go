package httphandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/traego/interview-mate/pkg/interview"
	"github.com/traego/interview-mate/pkg/session"
	"github.com/traego/interview-mate/pkg/session/store"
)

// SessionCookieName is the cookie carrying the session identifier
const SessionCookieName = "session_id"

// InterviewHandler maps HTTP requests onto orchestrator actions. It owns
// cookie and body parsing; the orchestrator never sees the request.
type InterviewHandler struct {
	orchestrator             *interview.Orchestrator
	defaultQuestionsPerRound int
}

// NewInterviewHandler creates a handler over the orchestrator. Setup
// requests that omit a question count fall back to defaultQuestionsPerRound.
func NewInterviewHandler(orchestrator *interview.Orchestrator, defaultQuestionsPerRound int) *InterviewHandler {
	return &InterviewHandler{
		orchestrator:             orchestrator,
		defaultQuestionsPerRound: defaultQuestionsPerRound,
	}
}

type loginRequest struct {
	Credential string `json:"credential"`
}

type setupRequest struct {
	Topic             string `json:"topic"`
	QuestionsPerRound int    `json:"questions_per_round"`
	UseVoice          bool   `json:"use_voice"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// HandleLogin creates a session for the supplied credential and issues the
// session cookie
func (h *InterviewHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.orchestrator.Login(r.Context(), req.Credential)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": s.SessionID,
	})
}

// HandleLogout deletes the session record and clears the cookie
func (h *InterviewHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.orchestrator.DeleteSession(r.Context(), sessionID); err != nil {
		writeActionError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetup initializes the interview parameters for the session
func (h *InterviewHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.QuestionsPerRound == 0 {
		req.QuestionsPerRound = h.defaultQuestionsPerRound
	}

	s, err := h.orchestrator.Setup(r.Context(), sessionID, req.Topic, req.QuestionsPerRound, req.UseVoice)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":               s.Topic,
		"questions_per_round": s.QuestionsPerRound,
		"use_voice":           s.UseVoice,
		"question_index":      s.QuestionIndex,
		"state":               s.State(),
	})
}

// HandleQuestion generates the next interview question
func (h *InterviewHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	question, err := h.orchestrator.GenerateQuestion(r.Context(), sessionID)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"question": question,
	})
}

// HandleAnswer records an answer and returns the generated feedback
func (h *InterviewHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.orchestrator.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feedback": feedback,
	})
}

// HandleContinue advances the interview to the next question slot
func (h *InterviewHandler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.orchestrator.Continue(r.Context(), sessionID)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"question_index": s.QuestionIndex,
		"state":          s.State(),
	})
}

// HandleEnd marks the interview complete
func (h *InterviewHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.orchestrator.End(r.Context(), sessionID)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"interview_complete": s.InterviewComplete,
		"completed":          len(s.CompletedQuestions),
	})
}

// HandleSummary returns the interview transcript
func (h *InterviewHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.orchestrator.Summary(r.Context(), sessionID)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	completed := s.CompletedQuestions
	if completed == nil {
		completed = []session.CompletedQuestion{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":               s.Topic,
		"completed_questions": completed,
		"interview_complete":  s.InterviewComplete,
	})
}

// sessionID extracts the session identifier cookie, writing a 401 when it is
// missing
func (h *InterviewHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSONError(w, http.StatusUnauthorized, "no session")
		return "", false
	}
	return cookie.Value, true
}

// writeActionError maps orchestrator failures to status codes
func writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSONError(w, http.StatusUnauthorized, "session not found")
	case errors.Is(err, interview.ErrMissingPrerequisite):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interview.ErrNoActiveQuestion):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, interview.ErrGenerationFailed):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, store.ErrStoreUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "session store unavailable, please retry")
	default:
		slog.ErrorContext(r.Context(), "Unhandled action error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
