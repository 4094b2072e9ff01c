// internal/status/snapshot.go
package status

// Snapshot represents exactly what a status sink is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health           uint16
	StaleCount       uint16
	SecondsUnhealthy uint16
	VerdictMask      uint16
}
