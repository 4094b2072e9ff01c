// internal/supervisor/supervisor.go
package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pulsegate/pulsegate/internal/monitor"
	"github.com/pulsegate/pulsegate/internal/report"
	"github.com/pulsegate/pulsegate/internal/status"
	"github.com/pulsegate/pulsegate/internal/telemetry"
	"github.com/pulsegate/pulsegate/internal/transport"
)

// Config is the immutable runtime config for the supervisor.
type Config struct {
	Name   string
	RateHz float64 // aggregation/publish rate, > 0
}

// Supervisor owns the fleet of channel monitors, computes aggregate
// health at a fixed cadence, and gates the passthrough command stream
// on that health.
//
// The gate flag is written only by tick() and read only by OnCommand;
// it may lag the true channel state by at most one aggregation period.
type Supervisor struct {
	cfg      Config
	interval time.Duration
	monitors []*monitor.Monitor
	pub      transport.Publisher
	sinks    []report.Writer
	log      *zap.Logger

	healthy atomic.Bool

	// touched only by tick()
	unhealthySince time.Time
}

// New creates a supervisor over the given monitors.
func New(cfg Config, monitors []*monitor.Monitor, pub transport.Publisher, sinks []report.Writer, log *zap.Logger) (*Supervisor, error) {
	if cfg.RateHz <= 0 {
		return nil, errors.New("supervisor: rate must be > 0")
	}
	if len(monitors) == 0 {
		return nil, errors.New("supervisor: at least one monitor required")
	}
	if pub == nil {
		return nil, errors.New("supervisor: publisher required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Name != "" {
		log = log.With(zap.String("watchdog", cfg.Name))
	}

	return &Supervisor{
		cfg:      cfg,
		interval: time.Duration(float64(time.Second) / cfg.RateHz),
		monitors: monitors,
		pub:      pub,
		sinks:    sinks,
		log:      log,
	}, nil
}

// Healthy reports the aggregate verdict of the most recent tick.
func (s *Supervisor) Healthy() bool {
	return s.healthy.Load()
}

// Run starts every monitor's evaluation loop plus the aggregation
// loop, and blocks until ctx is cancelled and all loops have exited.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, m := range s.monitors {
		wg.Add(1)
		go func(m *monitor.Monitor) {
			defer wg.Done()
			m.Run(ctx)
		}(m)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick reads every monitor's verdict, aggregates, publishes the
// report, delivers the status snapshot to every sink, and updates
// the gate flag. Sink failures are logged, never fatal: the next
// cycle always delivers a fresh verdict.
func (s *Supervisor) tick(now time.Time) {
	channels := make(map[string]bool, len(s.monitors))

	all := true
	var mask uint16
	var staleCount uint16

	for i, m := range s.monitors {
		v := m.Status()
		channels[m.Name()] = v
		telemetry.SetChannelHealth(m.Name(), v)
		if v {
			if i < 16 {
				mask |= 1 << uint(i)
			}
		} else {
			all = false
			staleCount++
		}
	}

	prev := s.healthy.Swap(all)
	telemetry.SetSystemHealth(all)

	if prev != all {
		if all {
			s.log.Info("system recovered")
		} else {
			s.log.Warn("system unhealthy, gating commands",
				zap.Uint16("stale_channels", staleCount))
		}
	}

	var errs error

	errs = multierr.Append(errs, s.pub.PublishReport(transport.Report{
		Stamp:    now,
		Healthy:  all,
		Channels: channels,
	}))

	snap := s.snapshot(now, all, staleCount, mask)
	for _, w := range s.sinks {
		errs = multierr.Append(errs, w.WriteStatus(snap))
	}

	if errs != nil {
		s.log.Warn("status delivery failed", zap.Error(errs))
	}
}

// snapshot derives the PLC status block values for this cycle.
func (s *Supervisor) snapshot(now time.Time, all bool, staleCount, mask uint16) status.Snapshot {
	var secs uint16

	if all {
		s.unhealthySince = time.Time{}
	} else {
		if s.unhealthySince.IsZero() {
			s.unhealthySince = now
		}
		elapsed := int64(now.Sub(s.unhealthySince) / time.Second)
		if elapsed > 65535 {
			elapsed = 65535 // seconds counter MUST NOT wrap
		}
		secs = uint16(elapsed)
	}

	health := status.HealthOK
	if !all {
		health = status.HealthStale
	}

	return status.Snapshot{
		Health:           health,
		StaleCount:       staleCount,
		SecondsUnhealthy: secs,
		VerdictMask:      mask,
	}
}

// OnCommand gates one inbound command: forwarded unchanged while the
// system is healthy, replaced by the neutral command otherwise.
// Synchronous, no queueing.
func (s *Supervisor) OnCommand(cmd transport.Command) {
	gated := !s.healthy.Load()
	if gated {
		cmd = transport.Command{}
	}
	telemetry.CountCommand(gated)

	if err := s.pub.PublishCommand(cmd); err != nil {
		s.log.Warn("command publish failed", zap.Error(err))
	}
}
