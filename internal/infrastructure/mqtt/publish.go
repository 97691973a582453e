package mqtt

import (
	"fmt"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker to acknowledge
// it. Messages with an empty topic, a QoS above 2 or a payload over 1MB
// fail with ErrRejected without touching the connection.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := checkMessage(topic, payload, qos); err != nil {
		return err
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

func checkMessage(topic string, payload []byte, qos byte) error {
	switch {
	case topic == "":
		return fmt.Errorf("%w: empty topic", ErrRejected)
	case qos > maxQoS:
		return fmt.Errorf("%w: QoS %d out of range 0-%d", ErrRejected, qos, maxQoS)
	case len(payload) > maxPayloadSize:
		return fmt.Errorf("%w: payload %d bytes exceeds %d", ErrRejected, len(payload), maxPayloadSize)
	}
	return nil
}

// QoS returns the configured default QoS level.
func (c *Client) QoS() byte {
	return byte(c.cfg.QoS)
}

// Topics returns the topic builders for the configured prefix.
func (c *Client) Topics() Topics {
	return c.topics
}
