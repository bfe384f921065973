package config

import (
	"time"
)

// ServerConfig holds the configuration for the interview server
type ServerConfig struct {
	// HTTP server configuration
	HTTP HTTPConfig `json:"http"`

	// Redis configuration for session storage (optional; in-memory otherwise)
	Redis *RedisConfig `json:"redis,omitempty"`

	// Session configuration
	Session SessionConfig `json:"session"`

	// Interview actor configuration
	Interview InterviewConfig `json:"interview"`

	// Server information
	ServerInfo ServerInfo `json:"server_info"`
}

// ServerInfo holds information about the server
type ServerInfo struct {
	// Server name
	Name string `json:"name"`

	// Server version
	Version string `json:"version"`
}

// HTTPConfig holds the HTTP server configuration
type HTTPConfig struct {
	// Host to bind to
	Host string `json:"host"`

	// Port to listen on
	Port int `json:"port"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`
}

// CORSConfig holds the CORS configuration
type CORSConfig struct {
	// Whether to enable CORS
	Enable bool `json:"enable"`

	// Allowed origins
	AllowedOrigins []string `json:"allowed_origins"`

	// Allowed headers
	AllowedHeaders []string `json:"allowed_headers"`

	// Exposed headers
	ExposedHeaders []string `json:"exposed_headers"`

	// Allow credentials
	AllowCredentials bool `json:"allow_credentials"`

	// Max age
	MaxAge time.Duration `json:"max_age"`
}

// SessionConfig holds the session storage configuration
type SessionConfig struct {
	// Session TTL (idle expiration window, refreshed on every write)
	TTL time.Duration `json:"ttl"`

	// Whether to use the in-memory session store (for testing)
	UseInMemory bool `json:"use_in_memory"`

	// Key prefix for session storage
	KeyPrefix string `json:"key_prefix"`
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	// Redis address
	Addr string `json:"addr"`

	// Redis username
	Username string `json:"username"`

	// Redis password
	Password string `json:"password"`

	// Redis database
	DB int `json:"db"`

	// Whether to connect over TLS
	EnableTLS bool `json:"enable_tls"`

	// Per-operation timeout
	OpTimeout time.Duration `json:"op_timeout"`
}

// InterviewConfig holds the interview actor configuration
type InterviewConfig struct {
	// Base URL of the conversational model endpoint
	ModelURL string `json:"model_url"`

	// Model identifier sent with generation requests
	Model string `json:"model"`

	// Timeout for a single generation call
	RequestTimeout time.Duration `json:"request_timeout"`

	// Whether to use the deterministic mock actor (for testing)
	UseMockActor bool `json:"use_mock_actor"`

	// Default number of questions per round when setup does not specify one
	DefaultQuestionsPerRound int `json:"default_questions_per_round"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPConfig{
			Host: "0.0.0.0",
			Port: 8080,
			CORS: CORSConfig{
				Enable:           false,
				AllowedOrigins:   []string{"*"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
				ExposedHeaders:   []string{},
				AllowCredentials: false,
				MaxAge:           300 * time.Second,
			},
		},
		Session: SessionConfig{
			TTL:         time.Hour,
			UseInMemory: false,
			KeyPrefix:   "session:",
		},
		Interview: InterviewConfig{
			ModelURL:                 "http://localhost:11434/v1/chat/completions",
			Model:                    "interview-mate",
			RequestTimeout:           60 * time.Second,
			UseMockActor:             false,
			DefaultQuestionsPerRound: 5,
		},
		ServerInfo: ServerInfo{
			Name:    "InterviewMate Server",
			Version: "1.0.0",
		},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *ServerConfig {
	cfg := DefaultConfig()
	cfg.Redis = nil // No Redis for testing
	cfg.Session.UseInMemory = true
	cfg.Interview.UseMockActor = true
	return cfg
}
