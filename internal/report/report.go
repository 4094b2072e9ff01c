// internal/report/report.go
package report

import "github.com/pulsegate/pulsegate/internal/status"

// Writer is the delivery-only contract for watchdog status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type Writer interface {
	WriteStatus(s status.Snapshot) error
}
