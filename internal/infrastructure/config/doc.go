// Package config handles loading and validating the master data service
// configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading an optional .env file next to the YAML file
//   - Overriding with MASTERDATA_* environment variables
//   - Validation of required fields
//
// Secrets (SMS auth key, MQTT password, InfluxDB token) should come from the
// environment or the .env file rather than the YAML file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Driver)
package config
