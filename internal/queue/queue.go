package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Handler processes one event. A returned error triggers a retry.
type Handler func(ctx context.Context, ev Event) error

// Queue interface
type Queue interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue delivers events to in-process subscribers with retry
type InMemoryQueue struct {
	MaxRetries int
	Backoff    time.Duration

	mu       sync.Mutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	log      logrus.FieldLogger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log logrus.FieldLogger) *InMemoryQueue {
	return &InMemoryQueue{
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		handlers:   make(map[string][]Handler),
		log:        log,
	}
}

// job wraps an event with retry info
type job struct {
	event      Event
	retryCount int
}

// Publish sends an event to all subscribers of its topic
func (q *InMemoryQueue) Publish(ctx context.Context, ev Event) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[ev.Topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", ev.Topic)
	}

	// deliveries outlive the publishing request
	ctx = context.WithoutCancel(ctx)
	for _, handler := range handlers {
		q.inflight.Add(1)
		go func(h Handler) {
			defer q.inflight.Done()
			q.process(ctx, h, &job{event: ev})
		}(handler)
	}
	return nil
}

// process handles retries and errors
func (q *InMemoryQueue) process(ctx context.Context, handler Handler, j *job) {
	entry := q.log.WithFields(logrus.Fields{"topic": j.event.Topic, "event_id": j.event.ID})
	for j.retryCount <= q.MaxRetries {
		err := handler(ctx, j.event)
		if err == nil {
			entry.Debug("Event processed")
			return
		}

		j.retryCount++
		entry.WithError(err).Warnf("Event handler failed (attempt %d/%d)", j.retryCount, q.MaxRetries)

		if j.retryCount > q.MaxRetries {
			entry.Errorf("Event permanently failed after %d retries", q.MaxRetries)
			return
		}

		// linear backoff before retry
		time.Sleep(time.Duration(j.retryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published event has been handled or dropped.
func (q *InMemoryQueue) Wait() {
	q.inflight.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
