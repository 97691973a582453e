package influxdb

import (
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	points  []*write.Point
	flushes int
}

func (w *recordingWriter) WritePoint(p *write.Point) { w.points = append(w.points, p) }
func (w *recordingWriter) Flush()                    { w.flushes++ }

func TestObserveOperation_Point(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w := &recordingWriter{}
	c := &Client{writeAPI: w, open: true, now: func() time.Time { return at }}

	c.ObserveOperation("machine", "create", "ok", 2*time.Millisecond)

	require.Len(t, w.points, 1)
	p := w.points[0]
	assert.Equal(t, OperationsMeasurement, p.Name())
	assert.True(t, p.Time().Equal(at), "Time() = %v, want %v", p.Time(), at)

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"entity": "machine", "operation": "create", "outcome": "ok"}, tags)

	fields := p.FieldList()
	require.Len(t, fields, 1)
	assert.Equal(t, "duration_ms", fields[0].Key)
	assert.Equal(t, float64(2), fields[0].Value)
}

func TestObserveOperation_ClosedDrops(t *testing.T) {
	w := &recordingWriter{}
	c := &Client{writeAPI: w}

	c.ObserveOperation("machine", "get_all", "ok", time.Millisecond)

	assert.Empty(t, w.points)
}

func TestClose_FlushesWriter(t *testing.T) {
	w := &recordingWriter{}
	c := &Client{writeAPI: w, open: true}

	require.NoError(t, c.Close())
	assert.Equal(t, 1, w.flushes)
	assert.False(t, c.isOpen())

	c.flush()
	assert.Equal(t, 1, w.flushes, "flush after Close must be a no-op")
}
