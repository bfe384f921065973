package mate

import (
	"context"
	"fmt"
	"strings"

	"github.com/traego/interview-mate/pkg/interview"
)

// MockActor provides deterministic local questions and feedback when no
// model endpoint is available.
type MockActor struct{}

func NewMockActor() *MockActor { return &MockActor{} }

// GenerateQuestion returns a deterministic question that is distinct from
// every entry in previous
func (a *MockActor) GenerateQuestion(ctx context.Context, topic string, index int, previous []string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	question := fmt.Sprintf("Question %d: tell me about your experience with %s.", index, topic)
	for attempt := 2; contains(previous, question); attempt++ {
		question = fmt.Sprintf("Question %d (take %d): tell me about your experience with %s.", index, attempt, topic)
	}
	return question, nil
}

// GenerateFeedback returns deterministic feedback referencing the answer
func (a *MockActor) GenerateFeedback(ctx context.Context, topic, question, answer string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return "You did not answer the question. Try walking through one concrete example.", nil
	}
	return fmt.Sprintf("Good start on %q. Consider adding a concrete example to back up: %s", topic, trimmed), nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

var _ interview.Actor = (*MockActor)(nil)
