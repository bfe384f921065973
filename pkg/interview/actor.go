package interview

import "context"

// Actor is an in-process handle to the conversational model, bound to one
// credential. An empty result is a defined failure signal, not an error.
type Actor interface {
	// GenerateQuestion produces the next interview question for topic.
	// previous carries already-asked questions so the model avoids repeats.
	GenerateQuestion(ctx context.Context, topic string, index int, previous []string) (string, error)

	// GenerateFeedback produces feedback on an answer to a question
	GenerateFeedback(ctx context.Context, topic, question, answer string) (string, error)
}

// ActorFactory constructs an Actor for a credential. Construction failure
// (e.g. an invalid credential) propagates as an error and is not cached.
type ActorFactory func(credential string) (Actor, error)
