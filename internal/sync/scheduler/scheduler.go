// Package scheduler runs periodic background drains of the sync queue.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/logging"
	syncpkg "github.com/ummeeayz/edusafe-app/internal/sync"
)

// Config holds scheduler timing.
type Config struct {
	Interval time.Duration
}

// DefaultConfig returns the default drain interval.
func DefaultConfig() *Config {
	return &Config{Interval: time.Minute}
}

// Scheduler drains the sync queue on a timer and immediately after the
// engine transitions from offline to online.
type Scheduler struct {
	engine   *syncpkg.Engine
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a Scheduler. A nil config uses DefaultConfig.
func New(engine *syncpkg.Engine, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scheduler{
		engine:   engine,
		interval: config.Interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the drain loop. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	logging.Info("sync scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
}

// Stop stops the drain loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	logging.Info("sync scheduler stopped")
}

// SetOnlineStatus updates the engine's connectivity state. Coming back
// online triggers an immediate drain so queued work is not held until
// the next tick.
func (s *Scheduler) SetOnlineStatus(ctx context.Context, online bool) {
	wasOnline := s.engine.IsOnline()
	s.engine.SetOnline(online)

	if online && !wasOnline {
		go s.drain(ctx)
	}
}

// TriggerSync starts a drain immediately and returns its result.
func (s *Scheduler) TriggerSync(ctx context.Context) (*syncpkg.Result, error) {
	return s.engine.ProcessQueue(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.drain(ctx)
		}
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	result, err := s.engine.ProcessQueue(ctx)
	if err != nil {
		logging.Error("background sync failed", err)
		return
	}
	if !result.Success {
		logging.Debug("background sync skipped", map[string]interface{}{
			"reason": result.Reason,
		})
	}
}
