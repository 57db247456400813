package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

// Queue is the part of the emergency queue the simulator drives.
type Queue interface {
	SpawnIfBelow(limit int) (patient.Emergency, bool, error)
	ResolveStale() (int, error)
}

type Config struct {
	SpawnMin      time.Duration
	SpawnMax      time.Duration
	SweepInterval time.Duration
	MaxPending    int
}

func DefaultConfig() Config {
	return Config{
		SpawnMin:      45 * time.Second,
		SpawnMax:      90 * time.Second,
		SweepInterval: time.Minute,
		MaxPending:    8,
	}
}

// Simulator keeps the emergency queue alive: it spawns synthetic
// requests at random intervals and sweeps stale ones.
type Simulator struct {
	queue Queue
	cfg   Config
	rng   patient.Rand
	log   logrus.FieldLogger
}

func New(queue Queue, cfg Config, rng patient.Rand, log logrus.FieldLogger) *Simulator {
	if cfg.SpawnMax < cfg.SpawnMin {
		cfg.SpawnMax = cfg.SpawnMin
	}
	return &Simulator{queue: queue, cfg: cfg, rng: rng, log: log}
}

// Handle controls a running simulator.
type Handle struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Stop cancels both loops and waits for them to return. Safe to call twice.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	h.wg.Wait()
}

// Start launches the spawn and sweep loops. They run until ctx is
// cancelled or Stop is called.
func (s *Simulator) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		s.spawnLoop(ctx)
	}()
	go func() {
		defer h.wg.Done()
		s.sweepLoop(ctx)
	}()

	s.log.WithFields(logrus.Fields{
		"spawn_min":   s.cfg.SpawnMin,
		"spawn_max":   s.cfg.SpawnMax,
		"sweep":       s.cfg.SweepInterval,
		"max_pending": s.cfg.MaxPending,
	}).Info("emergency simulator started")
	return h
}

func (s *Simulator) spawnLoop(ctx context.Context) {
	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.spawnOnce()
			timer.Reset(s.nextDelay())
		}
	}
}

func (s *Simulator) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Simulator) spawnOnce() {
	e, spawned, err := s.queue.SpawnIfBelow(s.cfg.MaxPending)
	switch {
	case err != nil:
		s.log.WithError(err).Warn("emergency spawn failed")
	case spawned:
		s.log.WithFields(logrus.Fields{
			"emergency_id": e.ID,
			"patient_id":   e.PatientID,
			"severity":     e.Severity,
		}).Info("emergency request arrived")
	}
}

func (s *Simulator) sweepOnce() {
	n, err := s.queue.ResolveStale()
	if err != nil {
		s.log.WithError(err).Warn("stale emergency sweep failed")
		return
	}
	s.log.WithField("resolved", n).Debug("stale sweep done")
}

// nextDelay picks a uniform delay in [SpawnMin, SpawnMax] at millisecond granularity.
func (s *Simulator) nextDelay() time.Duration {
	spread := int((s.cfg.SpawnMax - s.cfg.SpawnMin) / time.Millisecond)
	if spread <= 0 {
		return s.cfg.SpawnMin
	}
	return s.cfg.SpawnMin + time.Duration(s.rng.Number(0, spread))*time.Millisecond
}
