package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/masterdata-core/internal/api"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/logging"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/masterdata-core/internal/machine"
	"github.com/nerrad567/masterdata-core/internal/masterdata"
	"github.com/nerrad567/masterdata-core/internal/notification/sms"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the master data HTTP API until SIGINT or SIGTERM.

The record store is chosen by database.driver. With the sqlite driver,
pending migrations are applied before the server starts. MQTT events and
InfluxDB metrics are enabled by their config sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts.configPath)
		},
	}
}

// runServe is the serve command, separated from cobra for testability.
//
// Parameters:
//   - ctx: Context whose cancellation triggers shutdown
//   - configPath: Path to config.yaml
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func runServe(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting master data service",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"service_id", cfg.Service.ID,
		"level", cfg.Logging.Level,
	)

	store, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing record store")
		if closeErr := store.close(); closeErr != nil {
			log.Error("error closing record store", "error", closeErr)
		}
	}()

	health := make(map[string]api.HealthChecker)
	if store.health != nil {
		health["database"] = store.health
	}

	metrics := api.NewMetrics()
	observers := masterdata.Observers{metrics}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		observers = append(observers, influxClient)
		health["influxdb"] = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	machines := machine.NewService(store.records, store.records)
	machines.SetLogger(log.Component("machine"))
	machines.SetObserver(observers)

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		machines.SetPublisher(mqtt.NewEventPublisher(mqttClient, mqttClient.Topics(), mqttClient.QoS()))
		health["mqtt"] = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled, record events are not published")
	}

	smsProvider := sms.New(cfg.SMS, sms.WithLogger(log.Component("sms")))
	if !cfg.SMS.Enabled {
		log.Info("SMS gateway disabled, messages are validated and logged only")
	}

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log.Component("api"),
		Machines: machines,
		SMS:      smsProvider,
		Metrics:  metrics,
		Health:   health,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal", "address", server.Addr())

	<-ctx.Done()

	// Deferred Close() calls run in reverse order: API server, MQTT,
	// InfluxDB, then the record store.
	log.Info("shutdown signal received, cleaning up")
	return nil
}
