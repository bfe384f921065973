// Package harness provides a test client for driving an interview server
// over HTTP the way a browser would, cookie jar included.
package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// InterviewTestClient represents a test client for the interview server
type InterviewTestClient struct {
	baseURL    string
	httpClient *http.Client
}

// InterviewTestClientOption represents an option for the test client
type InterviewTestClientOption func(*InterviewTestClient)

// WithBaseURL sets the base URL for the interview server
func WithBaseURL(baseURL string) InterviewTestClientOption {
	return func(c *InterviewTestClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client to use. A cookie jar is attached if
// the client has none.
func WithHTTPClient(httpClient *http.Client) InterviewTestClientOption {
	return func(c *InterviewTestClient) {
		c.httpClient = httpClient
	}
}

// NewInterviewTestClient creates a new test client
func NewInterviewTestClient(options ...InterviewTestClientOption) *InterviewTestClient {
	client := &InterviewTestClient{
		baseURL:    "http://localhost:8080",
		httpClient: &http.Client{},
	}

	for _, opt := range options {
		opt(client)
	}

	if client.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		client.httpClient.Jar = jar
	}

	return client
}

// Do sends a request with an optional JSON body and decodes the JSON
// response into a map. It returns the response status code alongside.
func (c *InterviewTestClient) Do(method, path string, body any) (int, map[string]any, error) {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	var decoded map[string]any
	if res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
			return res.StatusCode, nil, fmt.Errorf("decode response: %w", err)
		}
	}

	return res.StatusCode, decoded, nil
}

// Login authenticates with a credential and stores the session cookie
func (c *InterviewTestClient) Login(credential string) (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/login", map[string]any{"credential": credential})
}

// Logout deletes the server-side session
func (c *InterviewTestClient) Logout() (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/logout", nil)
}

// Setup configures the interview parameters
func (c *InterviewTestClient) Setup(topic string, questionsPerRound int, useVoice bool) (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/interview/setup", map[string]any{
		"topic":               topic,
		"questions_per_round": questionsPerRound,
		"use_voice":           useVoice,
	})
}

// Question requests the next generated question
func (c *InterviewTestClient) Question() (int, map[string]any, error) {
	return c.Do(http.MethodGet, "/interview/question", nil)
}

// Answer submits an answer and returns the feedback response
func (c *InterviewTestClient) Answer(answer string) (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/interview/answer", map[string]any{"answer": answer})
}

// Continue advances to the next question slot
func (c *InterviewTestClient) Continue() (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/interview/continue", nil)
}

// End marks the interview complete
func (c *InterviewTestClient) End() (int, map[string]any, error) {
	return c.Do(http.MethodPost, "/interview/end", nil)
}

// Summary fetches the interview transcript
func (c *InterviewTestClient) Summary() (int, map[string]any, error) {
	return c.Do(http.MethodGet, "/interview/summary", nil)
}
