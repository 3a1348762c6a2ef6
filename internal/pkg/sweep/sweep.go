package sweep

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

const batchSize = 200

// AccountLister finds accounts whose lifecycle needs a nudge.
type AccountLister interface {
	ListGraceLapsed(cutoff time.Time, limit int) ([]models.Account, error)
	ListWindowExpired(now time.Time, limit int) ([]models.Account, error)
	ListStaleExpired(before time.Time, limit int) ([]models.Account, error)
}

// Lifecycle applies the actual state transitions; satisfied by the
// entitlement engine.
type Lifecycle interface {
	CheckAndRevertIfExpired(ctx context.Context, accountID uint) (*models.Account, error)
}

// PurgeEnqueuer re-schedules purges for expired rows that outlived
// their first purge attempt.
type PurgeEnqueuer interface {
	EnqueuePurge(accountID uint, publicID string) error
}

// Sweeper periodically walks accounts that lapsed without anyone
// touching them: pending upgrades past their grace period, open sites
// past their access window, and expired rows whose purge never landed.
// Reads also trigger these transitions, so the sweeper only covers
// sites nobody visits.
type Sweeper struct {
	lister    AccountLister
	lifecycle Lifecycle
	purge     PurgeEnqueuer
	interval  time.Duration
	staleAge  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
	nowFn     func() time.Time
}

func New(lister AccountLister, lifecycle Lifecycle, purge PurgeEnqueuer) *Sweeper {
	interval := 5 * time.Minute
	if v, err := strconv.Atoi(env.GetEnv("SWEEP_INTERVAL_MINUTES", "5")); err == nil && v > 0 {
		interval = time.Duration(v) * time.Minute
	}

	return &Sweeper{
		lister:    lister,
		lifecycle: lifecycle,
		purge:     purge,
		interval:  interval,
		staleAge:  time.Hour,
		nowFn:     time.Now,
	}
}

// Start launches the sweep goroutine.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	log.Infof("[Sweep] Starting lifecycle sweeper (interval=%s)", s.interval)
	s.wg.Add(1)
	go s.run()
}

// Stop stops the sweep goroutine and waits for the current pass.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	log.Info("[Sweep] Lifecycle sweeper stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce performs a single sweep pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.nowFn()

	graceCutoff := now.Add(-entitlements.GracePeriod)
	lapsed, err := s.lister.ListGraceLapsed(graceCutoff, batchSize)
	if err != nil {
		log.Errorf("[Sweep] Failed to list lapsed grace periods: %v", err)
	} else {
		s.touch(ctx, lapsed, "grace reversion")
	}

	over, err := s.lister.ListWindowExpired(now, batchSize)
	if err != nil {
		log.Errorf("[Sweep] Failed to list expired access windows: %v", err)
	} else {
		s.touch(ctx, over, "expiry")
	}

	// An expired row still sitting around means its purge job was lost,
	// most likely to a crash between the status flip and the enqueue.
	stale, err := s.lister.ListStaleExpired(now.Add(-s.staleAge), batchSize)
	if err != nil {
		log.Errorf("[Sweep] Failed to list stale expired accounts: %v", err)
		return
	}
	for _, acc := range stale {
		log.Warnf("[Sweep] Re-enqueueing purge for stale expired account %d", acc.ID)
		if err := s.purge.EnqueuePurge(acc.ID, acc.PublicID); err != nil {
			log.Errorf("[Sweep] Failed to re-enqueue purge for account %d: %v", acc.ID, err)
		}
	}
}

// touch runs the lifecycle check for each account; version conflicts
// mean someone else already handled it, which is fine.
func (s *Sweeper) touch(ctx context.Context, accounts []models.Account, why string) {
	for _, acc := range accounts {
		if _, err := s.lifecycle.CheckAndRevertIfExpired(ctx, acc.ID); err != nil {
			log.Errorf("[Sweep] %s failed for account %d: %v", why, acc.ID, err)
		}
	}
}
