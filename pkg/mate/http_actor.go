// Package mate provides conversational-model actors for interview question
// generation and answer feedback.
package mate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/traego/interview-mate/pkg/interview"
)

// HTTPActor talks to a chat-completions style HTTP endpoint, authenticating
// with the credential it was constructed for.
type HTTPActor struct {
	url        string
	model      string
	credential string
	client     *http.Client
}

// NewHTTPActor creates an actor for credential against the given endpoint
func NewHTTPActor(url, model, credential string, timeout time.Duration) *HTTPActor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPActor{
		url:        strings.TrimSpace(url),
		model:      model,
		credential: credential,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateQuestion produces the next interview question for topic
func (a *HTTPActor) GenerateQuestion(ctx context.Context, topic string, index int, previous []string) (string, error) {
	prompt := &strings.Builder{}
	fmt.Fprintf(prompt, "You are a professional interviewer. Ask interview question number %d for a candidate practicing %q.", index, topic)
	if len(previous) > 0 {
		prompt.WriteString(" Do not repeat any of these questions:\n")
		for _, q := range previous {
			fmt.Fprintf(prompt, "- %s\n", q)
		}
	}
	prompt.WriteString("\nReply with the question only.")

	return a.complete(ctx, prompt.String())
}

// GenerateFeedback produces feedback on an answer to a question
func (a *HTTPActor) GenerateFeedback(ctx context.Context, topic, question, answer string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a professional interviewer for %q.\nQuestion: %s\nCandidate answer: %s\n\nGive concise, constructive feedback on the answer.",
		topic, question, answer)

	return a.complete(ctx, prompt)
}

// complete sends one chat completion request and returns the reply text
func (a *HTTPActor) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.credential)

	res, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("model http status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

var _ interview.Actor = (*HTTPActor)(nil)
