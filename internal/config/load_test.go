// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
watchdog:
  name: zeus
  rate_hz: 10
  channels:
    - name: lidar
      topic: scan
      min_freq_hz: 10
    - name: odom
      topic: odom
      min_freq_hz: 20
      use_average: true
      eval_rate_hz: 5
  transport:
    broker: tcp://localhost:1883
    command_in: cmd_vel_in
    command_out: cmd_vel_out
  status_block:
    endpoint: 10.0.0.5:502
    unit_id: 1
    base_slot: 2
  telemetry:
    listen: :9090
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchdog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_OK(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	w := cfg.Watchdog
	if w.Name != "zeus" || w.RateHz != 10 {
		t.Fatalf("watchdog header mismatch: %+v", w)
	}
	if len(w.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(w.Channels))
	}
	if w.Channels[0].Name != "lidar" || w.Channels[0].MinFreqHz != 10 {
		t.Fatalf("channel 0 mismatch: %+v", w.Channels[0])
	}
	if !w.Channels[1].UseAverage || w.Channels[1].EvalRateHz != 5 {
		t.Fatalf("channel 1 mismatch: %+v", w.Channels[1])
	}
	if w.StatusBlock == nil || w.StatusBlock.Endpoint != "10.0.0.5:502" || w.StatusBlock.BaseSlot != 2 {
		t.Fatalf("status block mismatch: %+v", w.StatusBlock)
	}
	if w.Telemetry.Listen != ":9090" {
		t.Fatalf("telemetry mismatch: %+v", w.Telemetry)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestLoad_StatusBlockOptional(t *testing.T) {
	const minimal = `
watchdog:
  rate_hz: 1
  channels:
    - name: a
      topic: a
      min_freq_hz: 1
  transport:
    broker: tcp://localhost:1883
    command_in: in
    command_out: out
`
	cfg, err := Load(writeTemp(t, minimal))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Watchdog.StatusBlock != nil {
		t.Fatalf("status block should be nil when omitted")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	if _, err := Load(writeTemp(t, "watchdog: [not a map")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
