package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"infoex-agent-service/internal/pkg/logger"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/pkg/store"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "infoex:session"

// ErrSessionNotFound is returned when a session id has no record, either
// because it never existed or its TTL expired.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepositoryImpl struct {
	rdb *redis.Client
	ttl time.Duration
	log logger.ILogger
}

func NewSessionRepository(rdb *redis.Client, ttlSeconds int, log logger.ILogger) contract.SessionRepository {
	return &SessionRepositoryImpl{
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
		log: log,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionKeyPrefix, sessionID)
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.log.Error("session_repository", "session decode failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &session, nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.rdb.Set(ctx, sessionKey(session.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	r.log.Info("session_repository", "session saved", map[string]interface{}{
		"session_id": session.SessionID,
		"ttl":        r.ttl.Seconds(),
	})
	return nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) (bool, error) {
	deleted, err := r.rdb.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return deleted > 0, nil
}

func (r *SessionRepositoryImpl) TTL(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, err := r.rdb.TTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("session ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (r *SessionRepositoryImpl) ExtendTTL(ctx context.Context, sessionID string) error {
	ok, err := r.rdb.Expire(ctx, sessionKey(sessionID), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("extend session ttl: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryImpl) ListActive(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		ids    []string
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, sessionKeyPrefix+":*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, key[len(sessionKeyPrefix)+1:])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}

func (r *SessionRepositoryImpl) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
