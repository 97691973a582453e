package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// OperationsMeasurement is the measurement holding one point per service
// operation.
const OperationsMeasurement = "masterdata_operations"

// ObserveOperation queues one point for a finished service operation:
//
//	masterdata_operations,entity=machine,operation=get_by_locale,outcome=ok duration_ms=1.2
//
// The point is dropped once the client is closed.
func (c *Client) ObserveOperation(entity, operation, outcome string, elapsed time.Duration) {
	if !c.isOpen() {
		return
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	c.writeAPI.WritePoint(write.NewPoint(OperationsMeasurement,
		map[string]string{
			"entity":    entity,
			"operation": operation,
			"outcome":   outcome,
		},
		map[string]interface{}{
			"duration_ms": float64(elapsed) / float64(time.Millisecond),
		},
		now(),
	))
}

var _ masterdata.Observer = (*Client)(nil)
