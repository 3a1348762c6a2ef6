package accountcache

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// PageViewSink persists accumulated page-view counts.
type PageViewSink interface {
	IncrementPageViews(accountID uint, delta int64) error
}

// DebouncedWriter batches page-view increments in memory and writes them
// to the database at most once per flush interval, so a busy microsite
// does not turn every hit into an UPDATE.
type DebouncedWriter struct {
	sink      PageViewSink
	interval  time.Duration
	mu        sync.Mutex
	pending   map[uint]int64
	lastFlush time.Time
}

func NewDebouncedWriter(sink PageViewSink, interval time.Duration) *DebouncedWriter {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &DebouncedWriter{
		sink:      sink,
		interval:  interval,
		pending:   make(map[uint]int64),
		lastFlush: time.Now(),
	}
}

// Record counts one page view and flushes if the interval elapsed.
func (w *DebouncedWriter) Record(accountID uint) {
	w.mu.Lock()
	w.pending[accountID]++
	due := time.Since(w.lastFlush) > w.interval
	w.mu.Unlock()

	if due {
		w.Flush()
	}
}

// Flush writes all pending counts to the sink. Counts that fail to
// persist are put back so the next flush retries them.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[uint]int64)
	w.lastFlush = time.Now()
	w.mu.Unlock()

	for accountID, delta := range batch {
		if delta == 0 {
			continue
		}
		if err := w.sink.IncrementPageViews(accountID, delta); err != nil {
			log.Warnf("[AccountCache] page view flush failed for account %d: %v", accountID, err)
			w.mu.Lock()
			w.pending[accountID] += delta
			w.mu.Unlock()
		}
	}
}

// Start flushes on a ticker until stop is closed; used at shutdown to
// drain the final batch.
func (w *DebouncedWriter) Start(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Flush()
		case <-stop:
			w.Flush()
			return
		}
	}
}
