// internal/transport/mqtt/client.go
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/pulsegate/pulsegate/internal/transport"
)

// Config is minimal broker config.
type Config struct {
	Broker      string
	ClientID    string
	CommandOut  string
	StatusTopic string
}

// Client adapts an MQTT broker to the transport contracts.
// Arrival subscriptions deliver only the receipt instant; command
// subscriptions decode the fixed JSON schema. Reconnection is
// delegated to the paho client.
type Client struct {
	c   paho.Client
	cfg Config
	log *zap.Logger
}

const connectTimeout = 10 * time.Second

// Dial connects to the broker. Fails fast at startup.
func Dial(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	c := paho.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, err)
	}

	return &Client{c: c, cfg: cfg, log: log}, nil
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c == nil || c.c == nil {
		return
	}
	c.c.Disconnect(250)
}

// SubscribeArrivals registers fn for every message on topic.
// Only the receipt time is delivered; the payload is ignored.
func (c *Client) SubscribeArrivals(topic string, fn transport.ArrivalFunc) error {
	tok := c.c.Subscribe(topic, 0, func(_ paho.Client, _ paho.Message) {
		fn(time.Now())
	})
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe %s: %w", topic, err)
	}
	return nil
}

// SubscribeCommands registers fn for every inbound command on topic.
// A malformed payload is delivered as the neutral command so the gate
// never drops an arrival silently.
func (c *Client) SubscribeCommands(topic string, fn transport.CommandFunc) error {
	tok := c.c.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		cmd, err := decodeCommand(msg.Payload())
		if err != nil {
			c.log.Warn("malformed command payload",
				zap.String("topic", topic),
				zap.Error(err))
		}
		fn(cmd)
	})
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe %s: %w", topic, err)
	}
	return nil
}

// ---- transport.Publisher ----

func (c *Client) PublishCommand(cmd transport.Command) error {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("mqtt: encode command: %w", err)
	}
	return c.publish(c.cfg.CommandOut, raw)
}

func (c *Client) PublishReport(r transport.Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("mqtt: encode report: %w", err)
	}
	return c.publish(c.cfg.StatusTopic, raw)
}

func (c *Client) publish(topic string, payload []byte) error {
	tok := c.c.Publish(topic, 0, false, payload)
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	return nil
}

// decodeCommand parses the fixed command schema.
// On error the neutral command is returned.
func decodeCommand(raw []byte) (transport.Command, error) {
	var cmd transport.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return transport.Command{}, err
	}
	return cmd, nil
}
