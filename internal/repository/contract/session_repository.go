package contract

import (
	"context"
	"time"

	"infoex-agent-service/pkg/store"
)

// SessionRepository persists conversation sessions. Every save rewrites the
// whole session and resets its TTL.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, sessionID string) (bool, error)
	TTL(ctx context.Context, sessionID string) (time.Duration, error)
	ExtendTTL(ctx context.Context, sessionID string) error
	ListActive(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
