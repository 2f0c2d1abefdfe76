package ycsb

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// opMetrics groups the counters of one operation. They live in the default metrics set,
// so they show up in metrics.WritePrometheus output.
type opMetrics struct {
	total    *metrics.Counter
	errors   *metrics.Counter
	duration *metrics.Histogram
}

func newOpMetrics(op string) *opMetrics {
	return &opMetrics{
		total:    metrics.GetOrCreateCounter(fmt.Sprintf(`ycsb_ops_total{op=%q}`, op)),
		errors:   metrics.GetOrCreateCounter(fmt.Sprintf(`ycsb_errors_total{op=%q}`, op)),
		duration: metrics.GetOrCreateHistogram(fmt.Sprintf(`ycsb_op_duration_seconds{op=%q}`, op)),
	}
}

// observe is meant to be deferred with the address of the named error result.
func (m *opMetrics) observe(start time.Time, err *error) {
	m.total.Inc()
	if *err != nil {
		m.errors.Inc()
	}
	m.duration.UpdateDuration(start)
}

var (
	readMetrics   = newOpMetrics(opRead)
	insertMetrics = newOpMetrics(opInsert)
	updateMetrics = newOpMetrics(opUpdate)
	deleteMetrics = newOpMetrics(opDelete)
	scanMetrics   = newOpMetrics(opScan)
)
