package session

import "encoding/json"

// Patch field names. These are the JSON keys of the stored record; a Patch
// maps them to replacement values.
const (
	FieldSessionID          = "session_id"
	FieldCredential         = "credential"
	FieldTopic              = "topic"
	FieldQuestionsPerRound  = "questions_per_round"
	FieldUseVoice           = "use_voice"
	FieldQuestionIndex      = "question_index"
	FieldPreviousQuestions  = "previous_questions"
	FieldCurrentQuestion    = "current_question"
	FieldCurrentAnswer      = "current_answer"
	FieldCurrentFeedback    = "current_feedback"
	FieldCompletedQuestions = "completed_questions"
	FieldInterviewComplete  = "interview_complete"
)

// Patch is a field-level update to a session record. Keys present in the
// patch overwrite the stored field; a nil value removes it; every other
// stored field is retained.
type Patch map[string]any

// CompletedQuestion is one entry of the permanent interview transcript
type CompletedQuestion struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	Feedback      string `json:"feedback"`
	QuestionIndex int    `json:"question_index"`
}

// Session is the persisted per-user interview progress record. An empty
// string means the field is absent; Credential and Topic are immutable once
// set.
type Session struct {
	SessionID  string `json:"session_id,omitempty"`
	Credential string `json:"credential,omitempty"`

	Topic             string `json:"topic,omitempty"`
	QuestionsPerRound int    `json:"questions_per_round,omitempty"`
	UseVoice          bool   `json:"use_voice,omitempty"`

	QuestionIndex     int      `json:"question_index,omitempty"`
	PreviousQuestions []string `json:"previous_questions,omitempty"`

	// The in-flight question/answer/feedback triple. All three reset when a
	// new question begins.
	CurrentQuestion string `json:"current_question,omitempty"`
	CurrentAnswer   string `json:"current_answer,omitempty"`
	CurrentFeedback string `json:"current_feedback,omitempty"`

	CompletedQuestions []CompletedQuestion `json:"completed_questions,omitempty"`

	InterviewComplete bool `json:"interview_complete,omitempty"`
}

// Interview states, derived from field presence
type State string

const (
	StateAwaitingSetup            State = "awaiting_setup"
	StateAwaitingQuestion         State = "awaiting_question"
	StateAwaitingAnswer           State = "awaiting_answer"
	StateAwaitingContinueDecision State = "awaiting_continue_decision"
	StateComplete                 State = "complete"
)

// State derives the interview state from the session's fields
func (s *Session) State() State {
	switch {
	case s.InterviewComplete:
		return StateComplete
	case s.Topic == "":
		return StateAwaitingSetup
	case s.CurrentQuestion == "":
		return StateAwaitingQuestion
	case s.CurrentFeedback == "":
		return StateAwaitingAnswer
	default:
		return StateAwaitingContinueDecision
	}
}

// HasPreviousQuestion reports whether q already appears in the
// previous-questions history
func (s *Session) HasPreviousQuestion(q string) bool {
	for _, prev := range s.PreviousQuestions {
		if prev == q {
			return true
		}
	}
	return false
}

// decode deserializes a stored record into a Session
func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
