package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/devfolio/portfolio-backend/internal/feedback"
)

// fakeConn collects everything written to it.
type fakeConn struct {
	mu     sync.Mutex
	events []feedback.Event
	wrote  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{wrote: make(chan struct{}, 8)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if evt, ok := v.(feedback.Event); ok {
		c.events = append(c.events, evt)
	}
	c.wrote <- struct{}{}
	return nil
}

func (c *fakeConn) ReadJSON(dest interface{}) error { return nil }
func (c *fakeConn) Close() error                    { return nil }

func (c *fakeConn) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestEventBridgeLocalFanOut(t *testing.T) {
	// No Redis client: publish fans out to local connections directly.
	bridge := NewEventBridge(nil)

	conn := newFakeConn()
	id := bridge.Register(conn)

	evt := feedback.Event{Kind: "comment", ID: "abc", Author: "Ada"}
	if err := bridge.PublishSubmission(context.Background(), evt); err != nil {
		t.Fatal(err)
	}

	select {
	case <-conn.wrote:
	case <-time.After(time.Second):
		t.Fatal("event never reached the connection")
	}
	if conn.events[0].ID != "abc" {
		t.Errorf("event = %+v", conn.events[0])
	}

	// After unregistering nothing more is delivered.
	bridge.Unregister(id)
	if err := bridge.PublishSubmission(context.Background(), evt); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if conn.received() != 1 {
		t.Errorf("received %d events after unregister, want 1", conn.received())
	}
}
