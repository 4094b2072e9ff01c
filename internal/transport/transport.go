// internal/transport/transport.go
package transport

import "time"

// Vec3 is one axis triple of a velocity command.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Command is the passthrough velocity command schema.
// The zero value is the neutral command emitted while gated.
type Command struct {
	Linear  Vec3 `json:"linear"`
	Angular Vec3 `json:"angular"`
}

// Report is the per-cycle health report published to the status topic.
type Report struct {
	Stamp    time.Time       `json:"stamp"`
	Healthy  bool            `json:"healthy"`
	Channels map[string]bool `json:"channels"`
}

// ArrivalFunc receives the instant a message was received on a
// monitored channel. Payload content is never inspected.
type ArrivalFunc func(t time.Time)

// CommandFunc receives each decoded inbound command.
type CommandFunc func(cmd Command)

// Publisher is the outbound contract the supervisor depends on.
type Publisher interface {
	PublishCommand(cmd Command) error
	PublishReport(r Report) error
}
