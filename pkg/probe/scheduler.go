package probe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type SchedulerConfig struct {
	Volume   string
	Interval time.Duration

	Fs       afero.Fs
	Capacity CapacityFunc
	Logger   *log.Entry

	// OnResult is called from the probe goroutine after every probe.
	OnResult func(*Result)
}

// Scheduler probes one volume at a fixed rate. Probes run sequentially on a
// single goroutine; ticks that fire while a probe is still running are
// dropped.
type Scheduler struct {
	path     string
	interval time.Duration
	probe    *VolumeProbe
	logger   *log.Entry
	onResult func(*Result)

	running  atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	mu   sync.Mutex
	last *Result
}

// StartScheduler validates the volume and starts probing it. The first probe
// runs immediately. An unreachable volume yields an error matching
// ErrVolumeUnavailable and no probe is run.
func StartScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, errors.Errorf("probe interval must be positive, got %s", cfg.Interval)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("kind", "probe")
	}

	s := &Scheduler{
		path:     NormalizeVolume(cfg.Volume),
		interval: cfg.Interval,
		probe:    NewVolumeProbe(cfg.Fs, cfg.Capacity, logger),
		logger:   logger,
		onResult: cfg.OnResult,
		done:     make(chan struct{}),
	}

	if err := s.probe.Check(s.path); err != nil {
		return nil, err
	}

	s.logger.WithField("path", s.path).Infof("Volume %s is accessible, starting monitoring...", s.path)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running.Store(true)

	go s.run(ctx)

	s.logger.WithField("interval", s.interval).Infof("Timer created with interval: %s", s.interval)
	return s, nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	if !s.running.Load() {
		return
	}

	res := s.probe.ProbeOnce(s.path)

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if s.onResult != nil {
		s.onResult(res)
	}
}

// Stop cancels the schedule and waits for a running probe to finish. It is
// safe to call Stop more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		s.cancel()
		<-s.done
		s.logger.WithField("path", s.path).Info("probe scheduler stopped")
	})
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) Path() string {
	return s.path
}

// Last returns the most recent probe result, or nil if no probe finished yet.
func (s *Scheduler) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
