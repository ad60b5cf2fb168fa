package delivery

import (
	"log"
	"sync"

	"campuslink/internal/common"
)

// LogObserver writes every delivery transition to the service log.
type LogObserver struct{}

func NewLogObserver() *LogObserver {
	return &LogObserver{}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(event common.DeliveryEvent) error {
	switch event.State {
	case common.DeliveryConfirmed:
		log.Printf("delivery confirmed: token=%s message=%d attempts=%d", event.ClientToken, event.MessageID, event.Attempts)
	case common.DeliveryFailed:
		log.Printf("delivery failed: token=%s attempts=%d error=%s", event.ClientToken, event.Attempts, event.Error)
	default:
		log.Printf("delivery pending: token=%s attempts=%d", event.ClientToken, event.Attempts)
	}
	return nil
}

// UnreadTracker keeps an in-memory count of confirmed deliveries per
// container since startup, surfaced on the outbox stats endpoint.
type UnreadTracker struct {
	mu        sync.RWMutex
	confirmed map[string]int64
}

func NewUnreadTracker() *UnreadTracker {
	return &UnreadTracker{
		confirmed: make(map[string]int64),
	}
}

func (t *UnreadTracker) Name() string {
	return "unread_tracker"
}

func (t *UnreadTracker) Update(event common.DeliveryEvent) error {
	if event.State != common.DeliveryConfirmed {
		return nil
	}

	container := event.ConversationID
	if container == "" {
		container = event.GroupID
	}

	t.mu.Lock()
	t.confirmed[container]++
	t.mu.Unlock()
	return nil
}

func (t *UnreadTracker) Confirmed(container string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.confirmed[container]
}
