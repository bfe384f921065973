package interview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingActor struct {
	id int32
}

func (a *countingActor) GenerateQuestion(context.Context, string, int, []string) (string, error) {
	return "Q", nil
}

func (a *countingActor) GenerateFeedback(context.Context, string, string, string) (string, error) {
	return "F", nil
}

func TestGetOrCreateReturnsSameActor(t *testing.T) {
	var constructions int32
	cache := NewActorCache(func(credential string) (Actor, error) {
		return &countingActor{id: atomic.AddInt32(&constructions, 1)}, nil
	})

	first, err := cache.GetOrCreate("token-1")
	require.NoError(t, err)
	second, err := cache.GetOrCreate("token-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, constructions)
}

func TestGetOrCreateSeparateActorsPerCredential(t *testing.T) {
	cache := NewActorCache(func(credential string) (Actor, error) {
		return &countingActor{}, nil
	})

	a, err := cache.GetOrCreate("token-1")
	require.NoError(t, err)
	b, err := cache.GetOrCreate("token-2")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, cache.Len())
}

func TestGetOrCreateConcurrentFirstAccess(t *testing.T) {
	var constructions int32
	cache := NewActorCache(func(credential string) (Actor, error) {
		atomic.AddInt32(&constructions, 1)
		return &countingActor{}, nil
	})

	const goroutines = 32
	actors := make([]Actor, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor, err := cache.GetOrCreate("token-1")
			assert.NoError(t, err)
			actors[i] = actor
		}(i)
	}
	wg.Wait()

	// Exactly one construction; every caller got the same instance
	assert.EqualValues(t, 1, constructions)
	for i := 1; i < goroutines; i++ {
		assert.Same(t, actors[0], actors[i])
	}
}

func TestGetOrCreateDoesNotCacheFailures(t *testing.T) {
	attempts := 0
	cache := NewActorCache(func(credential string) (Actor, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("credential rejected")
		}
		return &countingActor{}, nil
	})

	_, err := cache.GetOrCreate("token-1")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// A later attempt with the same credential constructs again
	actor, err := cache.GetOrCreate("token-1")
	require.NoError(t, err)
	assert.NotNil(t, actor)
	assert.Equal(t, 2, attempts)
}
