// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	w := cfg.Watchdog

	// ------------------------------------------------------------
	// GLOBAL PARAMETERS
	// ------------------------------------------------------------

	if w.RateHz <= 0 {
		return fmt.Errorf("watchdog: rate_hz must be > 0, got %g", w.RateHz)
	}

	if len(w.Channels) == 0 {
		return fmt.Errorf("watchdog: at least one channel required")
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	if w.Transport.Broker == "" {
		return fmt.Errorf("transport: broker required")
	}
	if w.Transport.CommandIn == "" {
		return fmt.Errorf("transport: command_in topic required")
	}
	if w.Transport.CommandOut == "" {
		return fmt.Errorf("transport: command_out topic required")
	}
	if w.Transport.CommandIn == w.Transport.CommandOut {
		return fmt.Errorf("transport: command_in and command_out must differ (both %q)", w.Transport.CommandIn)
	}

	// ------------------------------------------------------------
	// CHANNEL VALIDATION (NAME/TOPIC COLLISIONS, RATES)
	// ------------------------------------------------------------

	names := make(map[string]int)
	topics := make(map[string]int)

	for i, ch := range w.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channel %d: name required", i)
		}
		if ch.Topic == "" {
			return fmt.Errorf("channel %q: topic required", ch.Name)
		}
		if ch.MinFreqHz <= 0 {
			return fmt.Errorf("channel %q: min_freq_hz must be > 0, got %g", ch.Name, ch.MinFreqHz)
		}
		if ch.EvalRateHz < 0 {
			return fmt.Errorf("channel %q: eval_rate_hz must be >= 0, got %g", ch.Name, ch.EvalRateHz)
		}

		if prev, exists := names[ch.Name]; exists {
			return fmt.Errorf("channel name collision: %q used by channels %d and %d", ch.Name, prev, i)
		}
		names[ch.Name] = i

		if prev, exists := topics[ch.Topic]; exists {
			return fmt.Errorf("channel topic collision: %q used by channels %d and %d", ch.Topic, prev, i)
		}
		topics[ch.Topic] = i
	}

	// ------------------------------------------------------------
	// STATUS BLOCK SINK (OPT-IN)
	// ------------------------------------------------------------

	if w.StatusBlock != nil {
		if w.StatusBlock.Endpoint == "" {
			return fmt.Errorf("status_block: endpoint required")
		}
		if w.StatusBlock.TimeoutMs < 0 {
			return fmt.Errorf("status_block: timeout_ms must be >= 0, got %d", w.StatusBlock.TimeoutMs)
		}
	}

	return nil
}
