package authstate

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/profilku/profilku/internal/models"
)

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	var n int32
	sub := h.subscribe("sid", func(Event, *models.Session) { atomic.AddInt32(&n, 1) })
	assert.Equal(t, 1, h.Listeners("sid"))

	h.emit("sid", SignedOut, nil)
	sub.Unsubscribe()
	sub.Unsubscribe()
	h.emit("sid", SignedOut, nil)

	assert.Equal(t, int32(1), atomic.LoadInt32(&n))
	assert.Equal(t, 0, h.Listeners("sid"))
}

func TestHub_EmitToInactiveListenerIsDropped(t *testing.T) {
	h := NewHub()
	var n int32
	sub := h.subscribe("sid", func(Event, *models.Session) { atomic.AddInt32(&n, 1) })
	sub.Unsubscribe()
	h.emitTo("sid", sub.l, InitialSession, nil)
	assert.Equal(t, int32(0), atomic.LoadInt32(&n))
}

func TestHub_SessionsAreIsolated(t *testing.T) {
	h := NewHub()
	var a, b int32
	defer h.subscribe("a", func(Event, *models.Session) { atomic.AddInt32(&a, 1) }).Unsubscribe()
	defer h.subscribe("b", func(Event, *models.Session) { atomic.AddInt32(&b, 1) }).Unsubscribe()

	h.emit("a", SignedIn, &models.Session{AccessToken: "x"})
	assert.Equal(t, int32(1), atomic.LoadInt32(&a))
	assert.Equal(t, int32(0), atomic.LoadInt32(&b))
}
