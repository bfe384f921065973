package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/traego/interview-mate/pkg/session"
)

// Orchestrator drives the interview state machine. It never trusts a
// caller-supplied session snapshot: every transition re-fetches the latest
// persisted state by identifier, because the caller may hold data captured
// before a concurrent update.
//
// Transitions either fully apply their patch or apply none; a store or actor
// failure never leaves the session partially mutated.
type Orchestrator struct {
	repo   *session.Repository
	actors *ActorCache
}

// NewOrchestrator creates an orchestrator over the given repository and
// actor cache
func NewOrchestrator(repo *session.Repository, actors *ActorCache) *Orchestrator {
	return &Orchestrator{
		repo:   repo,
		actors: actors,
	}
}

// Login creates a fresh session bound to credential and returns it. The
// session identifier is generated here; everything else is set at setup.
func (o *Orchestrator) Login(ctx context.Context, credential string) (*session.Session, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: credential is required", ErrMissingPrerequisite)
	}

	sessionID := uuid.NewString()
	s, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldSessionID:  sessionID,
		session.FieldCredential: credential,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Created session", "session_id", sessionID)
	return s, nil
}

// Setup initializes the interview parameters and resets all round state:
// the question index returns to 1 and both the previous-questions history
// and the transcript are cleared.
func (o *Orchestrator) Setup(ctx context.Context, sessionID, topic string, questionsPerRound int, useVoice bool) (*session.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrMissingPrerequisite)
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrMissingPrerequisite)
	}
	if questionsPerRound < 1 {
		return nil, fmt.Errorf("%w: questions per round must be positive", ErrMissingPrerequisite)
	}

	current, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Credential == "" {
		return nil, fmt.Errorf("%w: session has no credential", ErrMissingPrerequisite)
	}

	s, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldTopic:              topic,
		session.FieldQuestionsPerRound:  questionsPerRound,
		session.FieldUseVoice:           useVoice,
		session.FieldQuestionIndex:      1,
		session.FieldPreviousQuestions:  []string{},
		session.FieldCompletedQuestions: []session.CompletedQuestion{},
		session.FieldCurrentQuestion:    nil,
		session.FieldCurrentAnswer:      nil,
		session.FieldCurrentFeedback:    nil,
		session.FieldInterviewComplete:  nil,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Interview set up",
		"session_id", sessionID,
		"topic", topic,
		"questions_per_round", questionsPerRound,
		"use_voice", useVoice)
	return s, nil
}

// GenerateQuestion asks the actor for the next question and persists it as
// the in-flight question, clearing any stale answer and feedback. On an
// empty or failed generation the session is left unchanged.
func (o *Orchestrator) GenerateQuestion(ctx context.Context, sessionID string) (string, error) {
	s, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if s.Credential == "" {
		return "", fmt.Errorf("%w: session has no credential", ErrMissingPrerequisite)
	}
	if s.Topic == "" {
		return "", fmt.Errorf("%w: interview has not been set up", ErrMissingPrerequisite)
	}

	actor, err := o.actors.GetOrCreate(s.Credential)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	question, err := actor.GenerateQuestion(ctx, s.Topic, s.QuestionIndex, s.PreviousQuestions)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: actor returned an empty question", ErrGenerationFailed)
	}

	if _, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldCurrentQuestion: question,
		session.FieldCurrentAnswer:   nil,
		session.FieldCurrentFeedback: nil,
	}); err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "Generated question",
		"session_id", sessionID, "question_index", s.QuestionIndex)
	return question, nil
}

// SubmitAnswer records the answer to the in-flight question, obtains
// feedback from the actor, and appends the completed triple to the
// transcript. The answer, feedback, and transcript entry land in a single
// update so a failed feedback call leaves the session untouched.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID, answer string) (string, error) {
	s, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if s.CurrentQuestion == "" {
		return "", fmt.Errorf("%w: generate a question first", ErrNoActiveQuestion)
	}

	actor, err := o.actors.GetOrCreate(s.Credential)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	feedback, err := actor.GenerateFeedback(ctx, s.Topic, s.CurrentQuestion, answer)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(feedback) == "" {
		return "", fmt.Errorf("%w: actor returned empty feedback", ErrGenerationFailed)
	}

	// The feedback call takes a while; append against the latest persisted
	// transcript, not the copy loaded before the call.
	latest, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	completed := append(latest.CompletedQuestions, session.CompletedQuestion{
		Question:      s.CurrentQuestion,
		Answer:        answer,
		Feedback:      feedback,
		QuestionIndex: latest.QuestionIndex,
	})

	if _, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldCurrentAnswer:      answer,
		session.FieldCurrentFeedback:    feedback,
		session.FieldCompletedQuestions: completed,
	}); err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "Recorded answer and feedback",
		"session_id", sessionID,
		"question_index", latest.QuestionIndex,
		"completed", len(completed))
	return feedback, nil
}

// Continue moves the interview to the next question slot. The in-flight
// question joins the previous-questions history (at most once, so a retried
// continue is harmless), the index advances and wraps back to 1 past the end
// of the round, and the in-flight triple is cleared. The history and the
// transcript survive the wrap.
func (o *Orchestrator) Continue(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	previous := s.PreviousQuestions
	if s.CurrentQuestion != "" && !s.HasPreviousQuestion(s.CurrentQuestion) {
		previous = append(previous, s.CurrentQuestion)
	}
	if previous == nil {
		previous = []string{}
	}

	nextIndex := s.QuestionIndex + 1
	if nextIndex > s.QuestionsPerRound {
		nextIndex = 1
	}

	updated, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldPreviousQuestions: previous,
		session.FieldQuestionIndex:     nextIndex,
		session.FieldCurrentQuestion:   nil,
		session.FieldCurrentAnswer:     nil,
		session.FieldCurrentFeedback:   nil,
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Continued interview",
		"session_id", sessionID, "question_index", nextIndex)
	return updated, nil
}

// End marks the interview complete, regardless of current state. The record
// stays in the store for the summary until cleanup deletes it.
func (o *Orchestrator) End(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := o.repo.Update(ctx, sessionID, session.Patch{
		session.FieldInterviewComplete: true,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Interview ended",
		"session_id", sessionID, "completed", len(s.CompletedQuestions))
	return s, nil
}

// Summary returns the latest persisted session, including the transcript
func (o *Orchestrator) Summary(ctx context.Context, sessionID string) (*session.Session, error) {
	return o.repo.Load(ctx, sessionID)
}

// DeleteSession removes the session record. The web layer calls this at
// logout.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	return o.repo.Delete(ctx, sessionID)
}
