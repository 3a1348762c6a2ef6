package jobqueue

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

// Manager manages the global job queue
type Manager struct {
	queue   *Queue
	mu      sync.Mutex
	running bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// InitManager builds the global manager with its collaborators. It must
// run before GetManager.
func InitManager(purger PurgeRunner, mailer Mailer, failures FailureSink) *Manager {
	managerOnce.Do(func() {
		workerCount := 5
		if v, err := strconv.Atoi(env.GetEnv("JOBQUEUE_WORKERS", "5")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue: NewQueue(workerCount, purger, mailer, failures),
		}
	})
	return globalManager
}

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true

	log.Info("[JobQueue Manager] Starting job queue")
	m.queue.Start()
	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	log.Info("[JobQueue Manager] Stopping job queue...")
	m.queue.Stop()
	log.Info("[JobQueue Manager] Stopped successfully")
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
