// Package influxdb records master data service operations in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, batched writes and health monitoring. The Client implements
// masterdata.Observer, writing one point per retrieval or create:
//
//	masterdata_operations,entity=machine,operation=create,outcome=ok duration_ms=3.1
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	svc.SetObserver(client)
//
// # Error Handling
//
// Writes are non-blocking. Batch failures are delivered to the callback
// registered with SetOnError. Connection and health check errors are
// returned directly.
package influxdb
