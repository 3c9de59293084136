package authstate

import (
	"sync"

	"github.com/profilku/profilku/internal/models"
)

// Event names emitted to auth state listeners.
type Event string

const (
	InitialSession Event = "INITIAL_SESSION"
	SignedIn       Event = "SIGNED_IN"
	SignedOut      Event = "SIGNED_OUT"
	TokenRefreshed Event = "TOKEN_REFRESHED"
)

// Handler receives auth state changes. It runs inside the dispatch of the
// auth client and must not call back into the client; post follow-up work elsewhere.
type Handler func(event Event, session *models.Session)

// Subscription is returned by OnAuthStateChange.
type Subscription interface {
	// Unsubscribe waits for an in-flight delivery to this listener and guarantees
	// no delivery afterwards. Must not be called from inside the handler.
	Unsubscribe()
}

type listener struct {
	mu     sync.Mutex
	active bool
	fn     Handler
}

func (l *listener) deliver(ev Event, s *models.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.fn(ev, s)
}

type channel struct {
	dispatch  sync.Mutex
	listeners map[int]*listener
}

// Hub fans auth state changes out to every listener of the same browser
// session, across concurrent requests of this process.
type Hub struct {
	mu       sync.Mutex
	next     int
	channels map[string]*channel
}

func NewHub() *Hub {
	return &Hub{channels: map[string]*channel{}}
}

type subscription struct {
	hub  *Hub
	sid  string
	id   int
	l    *listener
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.l.mu.Lock()
		s.l.active = false
		s.l.mu.Unlock()
		s.hub.remove(s.sid, s.id)
	})
}

func (h *Hub) channel(sid string) *channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.channels[sid]
}

func (h *Hub) subscribe(sid string, fn Handler) *subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[sid]
	if !ok {
		ch = &channel{listeners: map[int]*listener{}}
		h.channels[sid] = ch
	}
	h.next++
	l := &listener{active: true, fn: fn}
	ch.listeners[h.next] = l
	return &subscription{hub: h, sid: sid, id: h.next, l: l}
}

func (h *Hub) remove(sid string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[sid]
	if !ok {
		return
	}
	delete(ch.listeners, id)
	if len(ch.listeners) == 0 {
		delete(h.channels, sid)
	}
}

func (h *Hub) snapshot(sid string) []*listener {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[sid]
	if !ok {
		return nil
	}
	out := make([]*listener, 0, len(ch.listeners))
	for _, l := range ch.listeners {
		out = append(out, l)
	}
	return out
}

// Listeners reports how many listeners a browser session currently has.
func (h *Hub) Listeners(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels[sid]; ok {
		return len(ch.listeners)
	}
	return 0
}

// emit delivers ev to every listener of sid. Deliveries for one browser
// session are serialized; emitting from inside a handler deadlocks.
func (h *Hub) emit(sid string, ev Event, s *models.Session) {
	ch := h.channel(sid)
	if ch == nil {
		return
	}
	ch.dispatch.Lock()
	defer ch.dispatch.Unlock()
	for _, l := range h.snapshot(sid) {
		l.deliver(ev, s)
	}
}

// emitTo delivers ev to a single listener under the session's dispatch lock.
func (h *Hub) emitTo(sid string, l *listener, ev Event, s *models.Session) {
	ch := h.channel(sid)
	if ch == nil {
		// unsubscribed already; deliver is a no-op for inactive listeners
		l.deliver(ev, s)
		return
	}
	ch.dispatch.Lock()
	defer ch.dispatch.Unlock()
	l.deliver(ev, s)
}
