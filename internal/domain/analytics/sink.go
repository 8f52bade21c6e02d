package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pulse/internal/infra/logger"

	"gorm.io/gorm"
)

type Kind string

const (
	KindView  Kind = "view"
	KindClick Kind = "click"
)

// Event is one visitor interaction waiting to be stored.
type Event struct {
	Kind      Kind      `json:"kind"`
	PageID    string    `json:"pageId,omitempty"`
	BlockID   string    `json:"blockId,omitempty"`
	VisitorID string    `json:"visitorId"`
	At        time.Time `json:"at"`
}

func ViewEvent(pageID string) Event {
	return Event{Kind: KindView, PageID: pageID, VisitorID: NewVisitorID(), At: time.Now()}
}

func ClickEvent(blockID string) Event {
	return Event{Kind: KindClick, BlockID: blockID, VisitorID: NewVisitorID(), At: time.Now()}
}

// Sink records analytics events. Implementations must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

var (
	ErrUnknownKind = errors.New("unknown analytics event kind")
	ErrDropped     = errors.New("analytics event dropped")
)

type DBSink struct {
	DB *gorm.DB
}

func (s DBSink) Record(ctx context.Context, ev Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	visitor := ev.VisitorID
	if visitor == "" {
		visitor = NewVisitorID()
	}

	db := s.DB.WithContext(ctx)
	switch ev.Kind {
	case KindView:
		if err := db.Create(&PageView{PageID: ev.PageID, VisitorID: visitor, CreatedAt: at}).Error; err != nil {
			return fmt.Errorf("record page view: %w", err)
		}
	case KindClick:
		if err := db.Create(&BlockClick{BlockID: ev.BlockID, VisitorID: visitor, CreatedAt: at}).Error; err != nil {
			return fmt.Errorf("record block click: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	return nil
}

// AsyncSink hands events to a background writer so request handlers never
// wait on analytics storage. When the buffer is full the event is dropped.
type AsyncSink struct {
	next Sink
	ch   chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

const asyncWriteTimeout = 5 * time.Second

func NewAsyncSink(next Sink, buffer int) *AsyncSink {
	if buffer < 1 {
		buffer = 1
	}
	s := &AsyncSink{
		next: next,
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AsyncSink) Record(_ context.Context, ev Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrDropped
	}
	select {
	case s.ch <- ev:
		return nil
	default:
		logger.Error("analytics buffer full, dropping event", "kind", ev.Kind, "page_id", ev.PageID, "block_id", ev.BlockID)
		return ErrDropped
	}
}

// Close stops accepting events and waits for buffered ones to be written.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	<-s.done
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for ev := range s.ch {
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		if err := s.next.Record(ctx, ev); err != nil {
			logger.Error("failed to record analytics event", "kind", ev.Kind, "error", err)
		}
		cancel()
	}
}
