package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/contactd/internal/domain/audit"
)

func event(id string) Event {
	return Event{ID: id, Identity: "203.0.113.7", Stage: audit.StageReceived, Outcome: audit.OutcomeAttempt}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Capacity(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if !q.Enqueue(ctx, event("event1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "event1" {
		t.Errorf("expected event1, got %v", got.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, event("event1")) || !q.Enqueue(ctx, event("event2")) {
		t.Fatal("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, event("event3")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_RecordOverflow(t *testing.T) {
	overflow := audit.NewMemorySink(10)
	q := NewInMemoryQueue(WithCapacity(1), WithOverflow(overflow))
	ctx := context.Background()

	if err := q.Record(ctx, event("queued")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := q.Record(ctx, event("spilled")); err != nil {
		t.Fatalf("record on full queue: %v", err)
	}

	spilled := overflow.Events()
	if len(spilled) != 1 || spilled[0].ID != "spilled" {
		t.Errorf("expected the second event in the overflow sink, got %+v", spilled)
	}

	_ = q.Close()
	if err := q.Record(ctx, event("late")); err != nil {
		t.Fatalf("record after close: %v", err)
	}
	if n := len(overflow.Events()); n != 2 {
		t.Errorf("expected 2 overflow events after close, got %d", n)
	}
}

func TestInMemoryQueue_RecordWithoutOverflow(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	_ = q.Record(ctx, event("a"))
	if err := q.Record(ctx, event("b")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	_ = q.Close()
	if err := q.Record(ctx, event("c")); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	numGoroutines := 10
	numEvents := 100

	var producers sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for j := 0; j < numEvents; j++ {
				for !q.Enqueue(ctx, event(fmt.Sprintf("event%d_%d", id, j))) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	consumed := make(chan string, numGoroutines*numEvents)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for e := range q.Dequeue(ctx) {
				consumed <- e.ID
			}
		}()
	}

	producers.Wait()

	deadline := time.After(2 * time.Second)
	for len(consumed) < numGoroutines*numEvents {
		select {
		case <-deadline:
			t.Fatalf("consumed %d of %d events", len(consumed), numGoroutines*numEvents)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, event("event1")) || !q.Enqueue(ctx, event("event2")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, event("event3")) {
		t.Error("expected enqueue to fail after closing")
	}

	// Queued events are still drained, then the channel closes.
	var drained []string
	timeout := time.After(time.Second)
	eventChan := q.Dequeue(ctx)
	for {
		select {
		case e, ok := <-eventChan:
			if !ok {
				if len(drained) != 2 {
					t.Errorf("expected 2 drained events, got %v", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained = append(drained, e.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
