// Package telemetry moves run events off the simulation thread. The run
// hands events to a Queue, whose worker fans them out to sinks.
package telemetry

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/runner"
)

// Sink consumes events on the queue's worker goroutine.
type Sink interface {
	Consume(ev runner.Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev runner.Event) error

// Consume calls f(ev).
func (f SinkFunc) Consume(ev runner.Event) error { return f(ev) }

// Queue is a bounded event queue with a single worker. Track never blocks:
// when the buffer is full the event is dropped and counted.
type Queue struct {
	sinks  []Sink
	logger *log.Logger

	events  chan runner.Event
	done    chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewQueue creates a queue holding up to size pending events.
func NewQueue(size int, logger *log.Logger, sinks ...Sink) *Queue {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Queue{
		sinks:  sinks,
		logger: logger,
		events: make(chan runner.Event, size),
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.processEvents()
}

// Stop delivers the events still buffered and waits for the worker.
func (q *Queue) Stop() {
	q.stopped.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
}

// Track enqueues an event. It implements runner.Analytics.
func (q *Queue) Track(ev runner.Event) {
	select {
	case <-q.done:
		q.dropped.Add(1)
		return
	default:
	}

	select {
	case q.events <- ev:
	default:
		q.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

func (q *Queue) processEvents() {
	defer q.wg.Done()
	for {
		select {
		case ev := <-q.events:
			q.deliver(ev)
		case <-q.done:
			q.drain()
			return
		}
	}
}

// drain delivers whatever is buffered at shutdown.
func (q *Queue) drain() {
	for {
		select {
		case ev := <-q.events:
			q.deliver(ev)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ev runner.Event) {
	for _, s := range q.sinks {
		if err := s.Consume(ev); err != nil {
			q.logger.Warn("telemetry sink failed", "event", Name(ev), "error", err)
		}
	}
}

var _ runner.Analytics = (*Queue)(nil)
