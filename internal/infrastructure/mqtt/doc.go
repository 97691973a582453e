// Package mqtt provides MQTT connectivity for the master data service.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing record-created events
//   - A retained service status topic with Last Will and Testament
//
// # Topics
//
// All topics live under a configurable prefix (mqtt.topic_prefix,
// default "masterdata"):
//
//	<prefix>/system/status              retained online/offline status
//	<prefix>/events/<entity>/created    one message per created record
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	events := mqtt.NewEventPublisher(client, client.Topics(), client.QoS())
//	svc.SetPublisher(events)
package mqtt
