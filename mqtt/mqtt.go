// Package mqtt connects the clock to its broker: it subscribes to the
// topic carrying time updates and hands every raw payload to a
// callback. Reconnects and resubscribes are handled internally, the
// callback never learns about them.
package mqtt

import (
	"fmt"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
)

// Client wraps the paho client with the small surface the clock needs.
type Client struct {
	cfg    config.MQTTConfig
	client paho.Client
	onTick func(payload []byte)
}

// New prepares a client for the given broker. onTick receives the raw
// payload of every message on the tick topic, in arrival order, from the
// paho router goroutine. Nothing happens on the network until Connect.
func New(cfg config.MQTTConfig, onTick func(payload []byte)) *Client {
	c := &Client{cfg: cfg, onTick: onTick}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	// The subscription must be renewed on every (re)connect, the broker
	// does not keep it across sessions.
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		slog.Warn("Lost connection to MQTT broker", "error", err)
	})

	c.client = paho.NewClient(opts)
	return c
}

// Connect dials the broker and waits for the first connection to be
// established. The subscription itself happens in the connect handler.
func (c *Client) Connect() error {
	token := c.client.Connect()
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return fmt.Errorf("timed out connecting to MQTT broker %s", c.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", c.cfg.Broker, err)
	}
	return nil
}

// PublishStatus sends message to the status topic. It is a no-op when no
// status topic is configured.
func (c *Client) PublishStatus(message string) error {
	if c.cfg.StatusTopic == "" {
		return nil
	}
	token := c.client.Publish(c.cfg.StatusTopic, 0, false, message)
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return fmt.Errorf("timed out publishing to %s", c.cfg.StatusTopic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", c.cfg.StatusTopic, err)
	}
	return nil
}

// Close disconnects from the broker, allowing a short grace period for
// in-flight messages.
func (c *Client) Close() {
	c.client.Disconnect(250)
	slog.Info("Disconnected from MQTT broker")
}

func (c *Client) onConnect(client paho.Client) {
	slog.Info("Connected to MQTT broker", "broker", c.cfg.Broker, "topic", c.cfg.TickTopic)
	token := client.Subscribe(c.cfg.TickTopic, 0, func(_ paho.Client, msg paho.Message) {
		c.handle(msg.Payload())
	})
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		slog.Error("Timed out subscribing to tick topic", "topic", c.cfg.TickTopic)
		return
	}
	if err := token.Error(); err != nil {
		slog.Error("Failed to subscribe to tick topic", "topic", c.cfg.TickTopic, "error", err)
	}
}

func (c *Client) handle(payload []byte) {
	if c.onTick == nil {
		return
	}
	c.onTick(payload)
}
