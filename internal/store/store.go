package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	redisclient "github.com/skylight-sports/storefront/pkg/redis"
)

const sessionDocName = "currentSession"

// KV is the key-value surface the store runs on; pkg/redis.Client
// satisfies it, tests substitute an in-memory map.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	StateKey(name string) string
	SessionKey(sessionID, name string) string
}

// Store is the namespaced local persistence layer. Durable documents
// (cart, current user, auth token) live in the state scope; one-shot
// payment handoff records live in a TTL-bound session scope. There are
// no transactional guarantees: concurrent clients race on
// read-modify-write of the same document and the last write wins.
type Store struct {
	kv         KV
	sessionTTL time.Duration
}

func New(kv KV, sessionTTL time.Duration) (*Store, error) {
	if kv == nil {
		return nil, errors.New("kv backend is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Store{kv: kv, sessionTTL: sessionTTL}, nil
}

// GetDoc loads a durable JSON document. A missing key reports found=false
// with no error; an unparseable value is a storage error.
func (s *Store) GetDoc(ctx context.Context, name string, dest any) (bool, error) {
	return s.get(ctx, s.kv.StateKey(name), dest)
}

// PutDoc stores a durable JSON document, overwriting any prior value.
func (s *Store) PutDoc(ctx context.Context, name string, value any) error {
	return s.put(ctx, s.kv.StateKey(name), value, 0)
}

// DelDoc removes a durable document. Deleting an absent key is a no-op.
func (s *Store) DelDoc(ctx context.Context, names ...string) error {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, s.kv.StateKey(name))
	}
	return s.del(ctx, keys...)
}

// GetSessionDoc loads a session-scoped document.
func (s *Store) GetSessionDoc(ctx context.Context, sessionID, name string, dest any) (bool, error) {
	return s.get(ctx, s.kv.SessionKey(sessionID, name), dest)
}

// PutSessionDoc stores a session-scoped document under the session TTL.
func (s *Store) PutSessionDoc(ctx context.Context, sessionID, name string, value any) error {
	return s.put(ctx, s.kv.SessionKey(sessionID, name), value, s.sessionTTL)
}

// DelSessionDoc removes session-scoped documents.
func (s *Store) DelSessionDoc(ctx context.Context, sessionID string, names ...string) error {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, s.kv.SessionKey(sessionID, name))
	}
	return s.del(ctx, keys...)
}

// EnsureSession returns the active session identifier, creating one when
// none exists yet. The identifier persists until the session TTL lapses,
// standing in for a browser session.
func (s *Store) EnsureSession(ctx context.Context) (string, error) {
	var sid string
	found, err := s.get(ctx, s.kv.StateKey(sessionDocName), &sid)
	if err != nil {
		return "", err
	}
	if found && sid != "" {
		return sid, nil
	}
	sid = NewLocalID("sess")
	if err := s.put(ctx, s.kv.StateKey(sessionDocName), sid, s.sessionTTL); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *Store) get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read local store")
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, fmt.Sprintf("malformed document at %s", key))
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "encode local document")
	}
	if err := s.kv.Set(ctx, key, string(raw), ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write local store")
	}
	return nil
}

func (s *Store) del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete from local store")
	}
	return nil
}
