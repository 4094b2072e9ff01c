// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultEvalRateHz  = 10 // no reason to evaluate faster than this
	DefaultClientID    = "pulsegate"
	DefaultStatusTopic = "watchdog/status"
	DefaultName        = "pulsegate"

	// DefaultStatusTimeoutMs bounds each PLC write.
	DefaultStatusTimeoutMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	w := &cfg.Watchdog

	if w.Name == "" {
		w.Name = DefaultName
	}
	if w.Transport.ClientID == "" {
		w.Transport.ClientID = DefaultClientID
	}
	if w.Transport.StatusTopic == "" {
		w.Transport.StatusTopic = DefaultStatusTopic
	}

	for i := range w.Channels {
		ch := &w.Channels[i]
		if ch.EvalRateHz == 0 {
			ch.EvalRateHz = DefaultEvalRateHz
		}
	}

	if w.StatusBlock != nil && w.StatusBlock.TimeoutMs == 0 {
		w.StatusBlock.TimeoutMs = DefaultStatusTimeoutMs
	}
}
