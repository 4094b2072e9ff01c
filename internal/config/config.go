// internal/config/config.go
package config

type Config struct {
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

type WatchdogConfig struct {
	Name     string          `yaml:"name"`
	RateHz   float64         `yaml:"rate_hz"`
	Channels []ChannelConfig `yaml:"channels"`

	Transport TransportConfig `yaml:"transport"`

	// PLC status block sink (optional, opt-in)
	StatusBlock *StatusBlockConfig `yaml:"status_block"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- CHANNEL ----

type ChannelConfig struct {
	Name       string  `yaml:"name"`
	Topic      string  `yaml:"topic"`
	MinFreqHz  float64 `yaml:"min_freq_hz"`
	UseAverage bool    `yaml:"use_average"`
	EvalRateHz float64 `yaml:"eval_rate_hz"` // 0 => default applied by Normalize
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	CommandIn   string `yaml:"command_in"`
	CommandOut  string `yaml:"command_out"`
	StatusTopic string `yaml:"status_topic"`
}

// ---- STATUS BLOCK ----

type StatusBlockConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Listen string `yaml:"listen"` // empty disables the HTTP endpoint
}
