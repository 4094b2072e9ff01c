// internal/monitor/monitor.go
package monitor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulsegate/pulsegate/internal/telemetry"
)

// maxSamples bounds the arrival log between evaluations.
// On overflow the oldest stamp is discarded, which can only widen
// an observed gap, never hide a stale channel.
const maxSamples = 4096

// Config is the immutable runtime config for one channel monitor.
type Config struct {
	Name       string
	Topic      string
	MinFreq    float64 // Hz, > 0
	EvalRate   float64 // Hz, > 0
	UseAverage bool
}

// Monitor owns one channel's arrival log and staleness verdict.
// The (stamps, healthy) pair is mutated only under mu.
type Monitor struct {
	cfg         Config
	minInterval time.Duration
	log         *zap.Logger

	mu      sync.Mutex
	stamps  []time.Time
	healthy bool
}

// New creates a monitor with immutable config.
func New(cfg Config, log *zap.Logger) (*Monitor, error) {
	if cfg.Name == "" {
		return nil, errors.New("monitor: channel name required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("monitor %s: topic required", cfg.Name)
	}
	if cfg.MinFreq <= 0 {
		return nil, fmt.Errorf("monitor %s: min frequency must be > 0, got %g", cfg.Name, cfg.MinFreq)
	}
	if cfg.EvalRate <= 0 {
		return nil, fmt.Errorf("monitor %s: evaluation rate must be > 0, got %g", cfg.Name, cfg.EvalRate)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Monitor{
		cfg:         cfg,
		minInterval: intervalFor(cfg.MinFreq),
		log:         log.With(zap.String("channel", cfg.Name)),
	}, nil
}

// Name returns the configured display name.
func (m *Monitor) Name() string { return m.cfg.Name }

// Topic returns the transport channel identifier.
func (m *Monitor) Topic() string { return m.cfg.Topic }

// RecordArrival appends one arrival instant to the log.
// Safe to call concurrently with EvaluateOnce.
func (m *Monitor) RecordArrival(t time.Time) {
	m.mu.Lock()
	if len(m.stamps) >= maxSamples {
		copy(m.stamps, m.stamps[1:])
		m.stamps = m.stamps[:maxSamples-1]
	}
	m.stamps = append(m.stamps, t)
	m.mu.Unlock()

	telemetry.CountArrival(m.cfg.Name)
}

// Status returns the verdict of the most recent evaluation.
func (m *Monitor) Status() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthy
}

// EvaluateOnce runs exactly one evaluation cycle.
//
// Fewer than two stamps cannot establish a rate and resolve to
// unhealthy. Otherwise each gap between consecutive arrivals is
// checked against the minimum interval: in strict mode any single
// oversized gap marks the channel stale; in averaging mode the mean
// gap decides. After the verdict, only the newest stamp is retained
// so the inter-cycle gap is still checked next time.
func (m *Monitor) EvaluateOnce() bool {
	m.mu.Lock()
	prev := m.healthy

	if len(m.stamps) < 2 {
		m.healthy = false
	} else if m.cfg.UseAverage {
		var sum time.Duration
		for i := 0; i < len(m.stamps)-1; i++ {
			sum += m.stamps[i+1].Sub(m.stamps[i])
		}
		avg := sum / time.Duration(len(m.stamps)-1)
		m.healthy = avg <= m.minInterval
	} else {
		healthy := true
		for i := 0; i < len(m.stamps)-1; i++ {
			if m.stamps[i+1].Sub(m.stamps[i]) > m.minInterval {
				healthy = false
				break
			}
		}
		m.healthy = healthy
	}

	// Retention: keep only the newest stamp as the seed for the
	// next cycle's gap computation.
	if n := len(m.stamps); n > 1 {
		m.stamps[0] = m.stamps[n-1]
		m.stamps = m.stamps[:1]
	}

	verdict := m.healthy
	m.mu.Unlock()

	telemetry.CountEvaluation(m.cfg.Name, verdict)

	if verdict != prev {
		if verdict {
			m.log.Info("channel recovered")
		} else {
			m.log.Warn("channel stale",
				zap.Duration("min_interval", m.minInterval),
				zap.Bool("averaging", m.cfg.UseAverage))
		}
	}

	return verdict
}

// runFreq is the evaluation cadence: at most the minimum frequency,
// capped by the configured evaluation rate.
func (m *Monitor) runFreq() float64 {
	if m.cfg.MinFreq < m.cfg.EvalRate {
		return m.cfg.MinFreq
	}
	return m.cfg.EvalRate
}

func intervalFor(hz float64) time.Duration {
	return time.Duration(float64(time.Second) / hz)
}
