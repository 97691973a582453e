// Package api implements the HTTP REST API of the master data service.
//
// This package provides:
//   - Machine retrieval and creation endpoints
//   - An SMS send endpoint
//   - Health and Prometheus metrics endpoints
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - TLS support for production deployments
//
// # Errors
//
// Service errors are mapped by kind: not found becomes 404, invalid input
// 400, fetch and insert failures 500. The body always carries the stable
// service code:
//
//	{"status": 404, "code": "KER-MSD-030", "message": "Machine not Found"}
//
// The cause of a storage failure is logged and never sent to clients.
package api
