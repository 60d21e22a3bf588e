package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

// subscriberBuffer bounds the views queued for a slow subscriber; older
// views are dropped since every view supersedes the previous one.
const subscriberBuffer = 4

type subscriber struct {
	id    string
	views chan editor.View
}

type hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]*subscriber)}
}

func (h *hub) subscribe() *subscriber {
	sub := &subscriber{
		id:    uuid.New().String(),
		views: make(chan editor.View, subscriberBuffer),
	}
	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()
	return sub
}

func (h *hub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.views)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// broadcast queues view for every subscriber without blocking.
func (h *hub) broadcast(view editor.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subscribers {
		select {
		case sub.views <- view:
			continue
		default:
		}
		select {
		case <-sub.views:
		default:
		}
		select {
		case sub.views <- view:
		default:
		}
	}
}
