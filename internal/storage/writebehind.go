package storage

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrQueueFull is returned when a write is dropped because the queue is full
// or already stopped.
var ErrQueueFull = errors.New("storage: write queue full")

type writeKind int

const (
	writeBestScore writeKind = iota
	writeTutorial
	writeBalance
)

func (k writeKind) String() string {
	switch k {
	case writeBestScore:
		return "best_score"
	case writeTutorial:
		return "tutorial"
	case writeBalance:
		return "balance"
	default:
		return "unknown"
	}
}

type writeOp struct {
	kind  writeKind
	value int
}

// WriteBehind wraps a Backend so that saves return immediately and are
// applied by a worker goroutine in order. Loads go straight to the backend.
type WriteBehind struct {
	backend Backend
	logger  *log.Logger

	mu      sync.Mutex
	ops     chan writeOp
	closed  bool
	dropped int
	wg      sync.WaitGroup
}

// NewWriteBehind creates a write-behind wrapper with room for size pending
// writes. Call Start before use and Stop to flush.
func NewWriteBehind(backend Backend, size int, logger *log.Logger) *WriteBehind {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &WriteBehind{
		backend: backend,
		logger:  logger,
		ops:     make(chan writeOp, size),
	}
}

// Start launches the worker goroutine.
func (w *WriteBehind) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop refuses new writes, applies the pending ones and waits for the worker.
func (w *WriteBehind) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ops)
	w.mu.Unlock()

	w.wg.Wait()
}

// Dropped returns how many writes were discarded.
func (w *WriteBehind) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *WriteBehind) run() {
	defer w.wg.Done()
	for op := range w.ops {
		if err := w.apply(op); err != nil {
			w.logger.Warn("deferred write failed", "write", op.kind, "error", err)
		}
	}
}

func (w *WriteBehind) apply(op writeOp) error {
	switch op.kind {
	case writeBestScore:
		return w.backend.SaveBestScore(op.value)
	case writeTutorial:
		return w.backend.SaveTutorialCompleted()
	case writeBalance:
		return w.backend.SaveBalance(op.value)
	}
	return nil
}

// enqueue never blocks: a full queue drops the write.
func (w *WriteBehind) enqueue(op writeOp) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.dropped++
		return ErrQueueFull
	}
	select {
	case w.ops <- op:
		return nil
	default:
		w.dropped++
		return ErrQueueFull
	}
}

// LoadBestScore reads through to the backend.
func (w *WriteBehind) LoadBestScore() (int, error) {
	return w.backend.LoadBestScore()
}

// SaveBestScore queues the write.
func (w *WriteBehind) SaveBestScore(score int) error {
	return w.enqueue(writeOp{kind: writeBestScore, value: score})
}

// LoadTutorialCompleted reads through to the backend.
func (w *WriteBehind) LoadTutorialCompleted() (bool, error) {
	return w.backend.LoadTutorialCompleted()
}

// SaveTutorialCompleted queues the write.
func (w *WriteBehind) SaveTutorialCompleted() error {
	return w.enqueue(writeOp{kind: writeTutorial})
}

// LoadBalance reads through to the backend.
func (w *WriteBehind) LoadBalance() (int, error) {
	return w.backend.LoadBalance()
}

// SaveBalance queues the write.
func (w *WriteBehind) SaveBalance(balance int) error {
	return w.enqueue(writeOp{kind: writeBalance, value: balance})
}

var _ Backend = (*WriteBehind)(nil)
