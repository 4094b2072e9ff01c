// cmd/pulsegate/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/pulsegate/pulsegate/internal/config"
	"github.com/pulsegate/pulsegate/internal/monitor"
	"github.com/pulsegate/pulsegate/internal/report"
	rmodbus "github.com/pulsegate/pulsegate/internal/report/modbus"
	"github.com/pulsegate/pulsegate/internal/supervisor"
	"github.com/pulsegate/pulsegate/internal/telemetry"
	tmqtt "github.com/pulsegate/pulsegate/internal/transport/mqtt"
)

var (
	cfgPath string
	debug   bool
)

func main() {
	fs := pflag.NewFlagSet("", pflag.ExitOnError)
	fs.StringVar(&cfgPath, "config", "", "Path to watchdog config file (required)")
	fs.BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd := &cobra.Command{
		Use:   "pulsegate",
		Short: "Liveness watchdog gating a command stream on stream health",
		Long: `Pulsegate monitors the arrival timing of periodic data streams,
declares each stream healthy or stale against a per-stream minimum
frequency, and zeroes a passthrough velocity command whenever any
monitored stream is stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}
	cmd.Flags().AddFlagSet(fs)

	ctx := setupSignalHandler()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfgPath == "" {
		return fmt.Errorf("--config is required")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	w := cfg.Watchdog
	log.Info("monitoring channels", zap.Int("count", len(w.Channels)))

	// --------------------
	// Transport
	// --------------------

	mc, err := tmqtt.Dial(tmqtt.Config{
		Broker:      w.Transport.Broker,
		ClientID:    w.Transport.ClientID,
		CommandOut:  w.Transport.CommandOut,
		StatusTopic: w.Transport.StatusTopic,
	}, log)
	if err != nil {
		return err
	}
	defer mc.Close()

	// --------------------
	// Channel monitors
	// --------------------

	monitors := make([]*monitor.Monitor, 0, len(w.Channels))
	for _, ch := range w.Channels {
		m, err := monitor.New(monitor.Config{
			Name:       ch.Name,
			Topic:      ch.Topic,
			MinFreq:    ch.MinFreqHz,
			EvalRate:   ch.EvalRateHz,
			UseAverage: ch.UseAverage,
		}, log)
		if err != nil {
			return fmt.Errorf("monitor build failed (channel=%s): %w", ch.Name, err)
		}

		if err := mc.SubscribeArrivals(ch.Topic, m.RecordArrival); err != nil {
			return fmt.Errorf("subscribe failed (channel=%s): %w", ch.Name, err)
		}

		log.Info("channel configured",
			zap.String("name", ch.Name),
			zap.String("topic", ch.Topic),
			zap.Float64("min_freq_hz", ch.MinFreqHz),
			zap.Bool("use_average", ch.UseAverage))

		monitors = append(monitors, m)
	}

	// --------------------
	// Status sinks
	// --------------------

	var sinks []report.Writer
	if w.StatusBlock != nil {
		sw, err := rmodbus.New(rmodbus.Config{
			Endpoint: w.StatusBlock.Endpoint,
			UnitID:   w.StatusBlock.UnitID,
			BaseSlot: w.StatusBlock.BaseSlot,
			Timeout:  time.Duration(w.StatusBlock.TimeoutMs) * time.Millisecond,
		}, w.Name)
		if err != nil {
			return fmt.Errorf("status block sink failed: %w", err)
		}
		defer func() { _ = sw.Close() }()
		sinks = append(sinks, sw)
	}

	// --------------------
	// Supervisor + command gate
	// --------------------

	sup, err := supervisor.New(supervisor.Config{
		Name:   w.Name,
		RateHz: w.RateHz,
	}, monitors, mc, sinks, log)
	if err != nil {
		return err
	}

	if err := mc.SubscribeCommands(w.Transport.CommandIn, sup.OnCommand); err != nil {
		return fmt.Errorf("command subscribe failed: %w", err)
	}

	// --------------------
	// Telemetry endpoint (optional)
	// --------------------

	if w.Telemetry.Listen != "" {
		srv := serveTelemetry(w.Telemetry.Listen, log)
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shCtx)
		}()
	}

	log.Info("watchdog running",
		zap.String("name", w.Name),
		zap.Float64("rate_hz", w.RateHz))

	sup.Run(ctx)

	log.Info("watchdog stopped")
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveTelemetry(listen string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", telemetry.MetricsHandler())

	srv := &http.Server{Addr: listen, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("telemetry server failed", zap.Error(err))
		}
	}()
	return srv
}

// setupSignalHandler returns a context cancelled on SIGINT/SIGTERM.
// A second signal exits immediately.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()

	return ctx
}
