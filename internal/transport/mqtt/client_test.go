// internal/transport/mqtt/client_test.go
package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulsegate/pulsegate/internal/transport"
)

func TestDecodeCommand(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"linear":{"x":1.5,"y":0,"z":0},"angular":{"x":0,"y":0,"z":-0.25}}`))
	require.NoError(t, err)
	require.Equal(t, transport.Command{
		Linear:  transport.Vec3{X: 1.5},
		Angular: transport.Vec3{Z: -0.25},
	}, cmd)
}

// Malformed payloads decode to the neutral command so the gate always
// has something to emit.
func TestDecodeCommand_Malformed(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"linear":`))
	require.Error(t, err)
	require.Equal(t, transport.Command{}, cmd)
}

func TestDial_RequiresBroker(t *testing.T) {
	_, err := Dial(Config{}, nil)
	require.Error(t, err)
}
