package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// leadReconciler is the minimal interface the scheduler needs. It matches
// ReconcileService and lets the scheduler be unit tested with a small fake.
type leadReconciler interface {
	ReconcileFallbackLeads(ctx context.Context) ([]domain.ReconcileResult, error)
}

// Scheduler periodically replays the fallback backlog into the primary store.
type Scheduler struct {
	reconciler leadReconciler
	interval   time.Duration

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	lastRunAt       time.Time
	leadsReconciled int64
	runsCount       int64

	consecutiveAllFailCount int
}

func NewScheduler(reconciler leadReconciler, interval time.Duration) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		interval:   interval,
	}
}

// StartWithInterval restarts the loop with an operator-supplied interval.
func (s *Scheduler) StartWithInterval(ctx context.Context, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}

	s.mu.Lock()
	s.interval = time.Duration(intervalMinutes) * time.Minute
	s.consecutiveAllFailCount = 0
	s.mu.Unlock()

	return s.Start(ctx)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		logger.Warnf("Reconciler is already running")
		return nil
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})

	// Captured under the lock: StartWithInterval may rewrite s.interval while
	// the loop is live.
	interval := s.interval
	s.mu.Unlock()

	logger.Infof("Starting reconciler with interval: %v", interval)

	go s.run(ctx, interval)

	return nil
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration) {
	defer close(s.doneChan)

	s.processBacklog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processBacklog(ctx)

		case <-s.stopChan:
			logger.Warnf("Reconciler received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Reconciler context cancelled")
			return
		}
	}
}

func (s *Scheduler) processBacklog(ctx context.Context) {
	s.mu.Lock()
	s.lastRunAt = time.Now()
	s.runsCount++
	runNumber := s.runsCount
	s.mu.Unlock()

	logger.Infof("[Run #%d] Reconciling fallback backlog at %s", runNumber, s.lastRunAt.Format(time.RFC3339))

	results, err := s.reconciler.ReconcileFallbackLeads(ctx)
	if err != nil {
		logger.Errorf("[Run #%d] Error reconciling fallback leads: %v", runNumber, err)
		return
	}

	if results == nil {
		logger.Debugf("[Run #%d] Fallback backlog is empty", runNumber)
		return
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	s.mu.Lock()
	s.leadsReconciled += int64(successCount)

	if successCount == 0 && len(results) > 0 {
		s.consecutiveAllFailCount++
		logger.Warnf("[Run #%d] All %d reconcile attempts failed (consecutive count: %d)",
			runNumber, len(results), s.consecutiveAllFailCount)
	} else {
		s.consecutiveAllFailCount = 0
	}
	s.mu.Unlock()

	logger.Infof("[Run #%d] Reconciled %d of %d fallback leads",
		runNumber, successCount, len(results))
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		logger.Warnf("Reconciler is not running")
		return nil
	}

	s.running = false
	stopChan := s.stopChan
	doneChan := s.doneChan
	s.mu.Unlock()

	close(stopChan)
	<-doneChan

	logger.Infof("Reconciler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Running:                 s.running,
		LastRunAt:               s.lastRunAt,
		LeadsReconciled:         s.leadsReconciled,
		RunsCount:               s.runsCount,
		Interval:                s.interval,
		ConsecutiveAllFailCount: s.consecutiveAllFailCount,
	}

	if s.running && !s.lastRunAt.IsZero() {
		status.NextRunAt = s.lastRunAt.Add(s.interval)
	}

	return status
}

type Status struct {
	Running                 bool          `json:"running"`
	LastRunAt               time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt               time.Time     `json:"nextRunAt,omitempty"`
	LeadsReconciled         int64         `json:"leadsReconciled"`
	RunsCount               int64         `json:"runsCount"`
	Interval                time.Duration `json:"interval"`
	ConsecutiveAllFailCount int           `json:"consecutiveAllFailCount"`
}
