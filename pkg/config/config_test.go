package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session:", cfg.Session.KeyPrefix)
	assert.False(t, cfg.Session.UseInMemory)
	assert.Nil(t, cfg.Redis)
	assert.False(t, cfg.Interview.UseMockActor)
	assert.Equal(t, 5, cfg.Interview.DefaultQuestionsPerRound)
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	assert.Nil(t, cfg.Redis)
	assert.True(t, cfg.Session.UseInMemory)
	assert.True(t, cfg.Interview.UseMockActor)
}
