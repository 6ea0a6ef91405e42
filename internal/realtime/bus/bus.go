package bus

import (
	"context"

	"github.com/yungbote/homeslice-backend/internal/realtime"
)

// Bus bridges hubs across processes: a message published by one instance is
// forwarded to every instance's hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
