package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (s *recordingSink) Record(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestAsyncSinkDeliversOnClose(t *testing.T) {
	next := &recordingSink{}
	sink := NewAsyncSink(next, 16)

	for i := 0; i < 10; i++ {
		if err := sink.Record(context.Background(), ViewEvent("page")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	sink.Close()

	if got := next.count(); got != 10 {
		t.Fatalf("expected 10 delivered events, got %d", got)
	}
	if err := sink.Record(context.Background(), ViewEvent("page")); !errors.Is(err, ErrDropped) {
		t.Fatalf("expected ErrDropped after close, got %v", err)
	}
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	next := &recordingSink{block: make(chan struct{})}
	sink := NewAsyncSink(next, 1)

	// the writer takes the first event and blocks; the second fills the buffer
	if err := sink.Record(context.Background(), ClickEvent("b1")); err != nil {
		t.Fatalf("record: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for len(sink.ch) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := sink.Record(context.Background(), ClickEvent("b2")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.Record(context.Background(), ClickEvent("b3")); !errors.Is(err, ErrDropped) {
		t.Fatalf("expected overflow to drop, got %v", err)
	}

	close(next.block)
	sink.Close()
	if got := next.count(); got != 2 {
		t.Fatalf("expected 2 delivered events, got %d", got)
	}
}

func TestEventConstructorsAssignVisitor(t *testing.T) {
	a, b := ViewEvent("p"), ViewEvent("p")
	if a.VisitorID == "" || a.VisitorID == b.VisitorID {
		t.Fatalf("expected distinct visitor ids, got %q and %q", a.VisitorID, b.VisitorID)
	}
	if c := ClickEvent("x"); c.Kind != KindClick || c.BlockID != "x" {
		t.Fatalf("unexpected click event %+v", c)
	}
}
