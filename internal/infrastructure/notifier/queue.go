package notifier

import (
	"context"
	"time"

	"github.com/rs/xid"

	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Queue is the fire-and-forget notification sink handed to the tracker
// and the sessions. Emit never blocks: when the buffer is full the
// notification is dropped, never the event handler.
type Queue struct {
	ch chan entity.Notification
}

func NewQueue(size int) *Queue {
	return &Queue{
		ch: make(chan entity.Notification, size),
	}
}

func (q *Queue) Emit(message string, kind entity.EventKind) {
	n := entity.Notification{
		ID:      xid.New().String(),
		Message: message,
		Kind:    kind,
		At:      time.Now(),
	}

	select {
	case q.ch <- n:
	default:
		logger(context.Background()).Warn("notification queue full, dropping",
			"kind", string(kind))
	}
}

func (q *Queue) Notifications() <-chan entity.Notification {
	return q.ch
}

// Close releases the channel; only the producer side may call it.
func (q *Queue) Close() {
	close(q.ch)
}
