// internal/report/modbus/writer.go
package modbus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goburrow/modbus"

	"github.com/pulsegate/pulsegate/internal/status"
)

// registerWriter is the exact contract the status writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Config is minimal transport config for the PLC status sink.
type Config struct {
	Endpoint string
	UnitID   uint8
	BaseSlot uint16
	Timeout  time.Duration
}

// Writer delivers watchdog status snapshots into a PLC holding-register
// block over Modbus TCP.
// On any write failure, the next successful call re-asserts the full block.
type Writer struct {
	cli      registerWriter
	baseSlot uint16

	needFull bool
	last     status.Snapshot
	nameRegs []uint16

	closer func() error
}

// New creates a connected status writer. Fails fast at startup if the
// endpoint cannot be reached.
func New(cfg Config, name string) (*Writer, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("status writer: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("status writer: connect %s: %w", cfg.Endpoint, err)
	}

	return &Writer{
		cli:      modbus.NewClient(handler),
		baseSlot: cfg.BaseSlot,
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
		nameRegs: status.EncodeName(name),
		closer:   handler.Close,
	}, nil
}

// Close closes the underlying TCP connection.
func (w *Writer) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer()
}

// WriteStatus delivers a status snapshot into the PLC block.
// Full block on first write or after any failure; per-slot delta
// writes otherwise.
func (w *Writer) WriteStatus(s status.Snapshot) error {
	if w == nil || w.cli == nil {
		return errors.New("status writer: not connected")
	}

	baseAddr := w.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if w.needFull {
		regs := w.fullBlockRegs(s)

		if _, err := w.cli.WriteMultipleRegisters(
			baseAddr,
			uint16(len(regs)),
			packRegisters(regs),
		); err != nil {
			w.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		w.needFull = false
		w.last = s
		return nil
	}

	var errs []string

	writeSlot := func(slot uint16, v uint16, what string) bool {
		if _, err := w.cli.WriteMultipleRegisters(
			baseAddr+slot,
			1,
			packRegisters([]uint16{v}),
		); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", what, err))
			return false
		}
		return true
	}

	// Slot 0 — health_code
	if w.last.Health != s.Health {
		if writeSlot(status.SlotHealthCode, s.Health, "health") {
			w.last.Health = s.Health
		}
	}

	// Slot 1 — stale_count
	if w.last.StaleCount != s.StaleCount {
		if writeSlot(status.SlotStaleCount, s.StaleCount, "stale count") {
			w.last.StaleCount = s.StaleCount
		}
	}

	// Slot 2 — seconds_unhealthy
	if w.last.SecondsUnhealthy != s.SecondsUnhealthy {
		if writeSlot(status.SlotSecondsUnhealthy, s.SecondsUnhealthy, "seconds") {
			w.last.SecondsUnhealthy = s.SecondsUnhealthy
		}
	}

	// Slot 3 — verdict mask
	if w.last.VerdictMask != s.VerdictMask {
		if writeSlot(status.SlotVerdictMask, s.VerdictMask, "verdict mask") {
			w.last.VerdictMask = s.VerdictMask
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		w.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (w *Writer) baseAddr() uint16 {
	// Each watchdog owns a fixed SlotsPerBlock block.
	return w.baseSlot * status.SlotsPerBlock
}

func (w *Writer) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// The name always lives at the end of the block.
	for i := 0; i < status.SlotNameSlots; i++ {
		dst := status.SlotNameStart + i
		if dst < len(regs) && i < len(w.nameRegs) {
			regs[dst] = w.nameRegs[i]
		}
	}

	return regs
}

// packRegisters serializes registers big-endian, two bytes each.
func packRegisters(regs []uint16) []byte {
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
