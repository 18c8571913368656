package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
)

type fakeConn struct {
	mu      sync.Mutex
	written []services.Event
	wrote   chan struct{}
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{wrote: make(chan struct{}, 8), closed: make(chan struct{})}
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	f.written = append(f.written, v.(services.Event))
	f.mu.Unlock()
	f.wrote <- struct{}{}
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func TestHubDeliversToOwnerOnly(t *testing.T) {
	hub := NewHub(logger.Nop())
	mine, theirs := newFakeConn(), newFakeConn()

	served := make(chan struct{}, 2)
	go func() { hub.Serve(1, mine); served <- struct{}{} }()
	go func() { hub.Serve(2, theirs); served <- struct{}{} }()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections(1) != 1 || hub.Connections(2) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("clients never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Notify(1, services.Event{Type: services.EventAchievementUnlocked})

	select {
	case <-mine.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
	select {
	case <-theirs.wrote:
		t.Fatal("event delivered to another user")
	case <-time.After(50 * time.Millisecond):
	}

	mine.Close()
	theirs.Close()
	<-served
	<-served
	if hub.Connections(1) != 0 || hub.Connections(2) != 0 {
		t.Fatal("clients not unregistered")
	}

	// No connections: must not block or panic.
	hub.Notify(1, services.Event{Type: services.EventAchievementUnlocked})
}

func TestNotifyDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.register(7, newFakeConn())

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			hub.Notify(7, services.Event{Type: services.EventAchievementUnlocked})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full buffer")
	}
	if len(c.send) != sendBuffer {
		t.Fatalf("buffered %d events, want %d", len(c.send), sendBuffer)
	}
	hub.unregister(c)
}
