package interview

import (
	"fmt"
	"log/slog"
	"sync"
)

// ActorCache is a process-wide registry of actors keyed by credential.
// Constructing an actor is expensive, so at most one is built per credential
// per process. There is no eviction; the expected credential cardinality is
// small and the cache is rebuilt on process restart.
type ActorCache struct {
	factory ActorFactory

	mu     sync.Mutex
	actors map[string]Actor
}

// NewActorCache creates an actor cache backed by factory
func NewActorCache(factory ActorFactory) *ActorCache {
	return &ActorCache{
		factory: factory,
		actors:  make(map[string]Actor),
	}
}

// GetOrCreate returns the actor for credential, constructing and caching one
// on first access. Safe for concurrent use; construction errors are not
// cached.
func (c *ActorCache) GetOrCreate(credential string) (Actor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if actor, ok := c.actors[credential]; ok {
		return actor, nil
	}

	actor, err := c.factory(credential)
	if err != nil {
		return nil, fmt.Errorf("failed to construct actor: %w", err)
	}

	c.actors[credential] = actor
	slog.Debug("Constructed interview actor", "cached_actors", len(c.actors))
	return actor, nil
}

// Len returns the number of cached actors
func (c *ActorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actors)
}
