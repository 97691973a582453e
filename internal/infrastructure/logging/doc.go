// Package logging provides structured logging for the master data service.
//
// It wraps log/slog so that every entry carries the same default fields
// (service, version) and every component logs through one handler.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Component("api").Info("listening", "addr", addr)
//
// Never log the SMS auth key, MQTT password or InfluxDB token.
package logging
