package storage

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

// Sink is where the async writer sends records. *Store is the usual one.
type Sink interface {
	SaveResult(ResultRecord) (int64, error)
	SaveRating(RatingRecord) error
}

// DefaultQueue is the number of pending writes an AsyncWriter buffers.
const DefaultQueue = 64

// AsyncWriter queues result and rating writes and performs them on its
// own goroutine. Callers never wait: when the queue is full the write is
// dropped and logged. Failed writes are logged and dropped too.
type AsyncWriter struct {
	sink   Sink
	logger *log.Logger
	jobs   chan func() error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

var _ session.Feedback = (*AsyncWriter)(nil)

// NewAsyncWriter starts a writer in front of sink. A nil logger discards.
func NewAsyncWriter(sink Sink, queue int, logger *log.Logger) *AsyncWriter {
	if queue <= 0 {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &AsyncWriter{
		sink:   sink,
		logger: logger,
		jobs:   make(chan func() error, queue),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for job := range w.jobs {
		if err := job(); err != nil {
			w.logger.Warn("best-effort write failed", "error", err)
		}
	}
}

func (w *AsyncWriter) enqueue(kind string, job func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("write after close dropped", "kind", kind)
		return
	}
	select {
	case w.jobs <- job:
	default:
		w.logger.Warn("write queue full, dropped", "kind", kind)
	}
}

// SaveResult queues a session result.
func (w *AsyncWriter) SaveResult(sessionID, gameID string, d core.Difficulty, practice bool, r core.MiniGameResult) {
	rec := RecordFromResult(sessionID, gameID, d, practice, r)
	w.enqueue("result", func() error {
		_, err := w.sink.SaveResult(rec)
		return err
	})
}

// SaveRating queues a song rating.
func (w *AsyncWriter) SaveRating(sessionID, gameID, subject string, stars int) {
	rec := RatingRecord{SessionID: sessionID, GameID: gameID, Subject: subject, Stars: stars}
	w.enqueue("rating", func() error {
		return w.sink.SaveRating(rec)
	})
}

// Close stops accepting writes and waits for the queued ones to finish.
func (w *AsyncWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.done
}
