package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/traego/interview-mate/pkg/session/store"
)

// ErrNotFound is returned when no session record exists for an identifier.
// A corrupt stored record is reported the same way.
var ErrNotFound = errors.New("session not found")

const (
	// DefaultKeyPrefix is prepended to session identifiers to form store keys
	DefaultKeyPrefix = "session:"

	// DefaultTTL is the idle expiration window for stored sessions
	DefaultTTL = time.Hour
)

// Repository persists Session records in a KVStore as JSON, one record per
// session identifier.
//
// Update is a load-merge-store sequence, not a blind overwrite: a patch that
// touches one field never clobbers the others. The sequence is not atomic;
// two concurrent updates to the same session race and the later store wins,
// discarding the earlier patch. This last-writer-wins policy is a deliberate
// trade-off for single-user-paced sessions, not a bug.
type Repository struct {
	store  store.KVStore
	prefix string
	ttl    time.Duration
}

// NewRepository creates a session repository on top of kv. Every write
// refreshes the record's TTL to the given idle window.
func NewRepository(kv store.KVStore, prefix string, ttl time.Duration) *Repository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{
		store:  kv,
		prefix: prefix,
		ttl:    ttl,
	}
}

// key returns the store key for a session identifier
func (r *Repository) key(sessionID string) string {
	return r.prefix + sessionID
}

// Load fetches and deserializes the session for sessionID. It returns
// ErrNotFound when no record exists or the stored record does not decode;
// store failures are passed through.
func (r *Repository) Load(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := r.store.Get(ctx, r.key(sessionID))
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	s, err := decode(raw)
	if err != nil {
		// Corrupt record: fail soft as not-found rather than crash
		slog.WarnContext(ctx, "Discarding corrupt session record",
			"session_id", sessionID, "error", err)
		return nil, ErrNotFound
	}

	return s, nil
}

// Update applies patch to the latest persisted state of sessionID and stores
// the merged record with its TTL refreshed. An absent record is treated as an
// empty one. The merged session is returned.
func (r *Repository) Update(ctx context.Context, sessionID string, patch Patch) (*Session, error) {
	key := r.key(sessionID)

	merged := make(map[string]any)
	raw, err := r.store.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, &merged); err != nil {
			slog.WarnContext(ctx, "Discarding corrupt session record on update",
				"session_id", sessionID, "error", err)
			merged = make(map[string]any)
		}
	} else if !errors.Is(err, store.ErrKeyNotFound) {
		return nil, fmt.Errorf("failed to load session %s for update: %w", sessionID, err)
	}

	for field, value := range patch {
		if value == nil {
			delete(merged, field)
			continue
		}
		merged[field] = value
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session %s: %w", sessionID, err)
	}

	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}

	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize merged session %s: %w", sessionID, err)
	}

	slog.DebugContext(ctx, "Updated session",
		"session_id", sessionID, "fields", len(patch), "ttl", r.ttl)
	return s, nil
}

// Delete removes the session record for sessionID
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, r.key(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	slog.DebugContext(ctx, "Deleted session", "session_id", sessionID)
	return nil
}

// TTL returns the idle expiration window applied on every write
func (r *Repository) TTL() time.Duration {
	return r.ttl
}
