package mqtt

import "errors"

var (
	// ErrNotConnected is returned by Publish and HealthCheck while the
	// broker link is down. Event publishing surfaces it unchanged so the
	// caller can log and carry on without the event.
	ErrNotConnected = errors.New("mqtt: not connected to broker")

	// ErrConnectionFailed wraps the reason Connect gave up.
	ErrConnectionFailed = errors.New("mqtt: broker connection failed")

	// ErrRejected means Publish refused a message before it reached the
	// broker: empty topic, QoS above 2 or an oversized payload.
	ErrRejected = errors.New("mqtt: message rejected")

	// ErrPublishFailed wraps a broker-side failure or an unacknowledged
	// publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")
)
