package mate

import (
	"fmt"
	"strings"

	"github.com/traego/interview-mate/pkg/config"
	"github.com/traego/interview-mate/pkg/interview"
)

// NewFactory returns an ActorFactory for the configured model endpoint. When
// cfg.UseMockActor is set it produces mock actors instead, so tests and
// offline runs never touch the network.
func NewFactory(cfg config.InterviewConfig) interview.ActorFactory {
	return func(credential string) (interview.Actor, error) {
		if strings.TrimSpace(credential) == "" {
			return nil, fmt.Errorf("credential is empty")
		}

		if cfg.UseMockActor {
			return NewMockActor(), nil
		}

		return NewHTTPActor(cfg.ModelURL, cfg.Model, credential, cfg.RequestTimeout), nil
	}
}
