package server

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// requestMetrics holds the counters of one message type
type requestMetrics struct {
	total    *metrics.Counter
	errors   *metrics.Counter
	duration *metrics.Histogram
}

func newRequestMetrics(msgType common.MessageType) *requestMetrics {
	return &requestMetrics{
		total:    metrics.GetOrCreateCounter(fmt.Sprintf(`dtree_rpc_requests_total{type=%q}`, msgType)),
		errors:   metrics.GetOrCreateCounter(fmt.Sprintf(`dtree_rpc_errors_total{type=%q}`, msgType)),
		duration: metrics.GetOrCreateHistogram(fmt.Sprintf(`dtree_rpc_request_duration_seconds{type=%q}`, msgType)),
	}
}

func (m *requestMetrics) observe(start time.Time, resp *common.Message) {
	m.total.Inc()
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		m.errors.Inc()
	}
	m.duration.UpdateDuration(start)
}

var requestMetricsByType = map[common.MessageType]*requestMetrics{
	common.MsgTTreeRead:   newRequestMetrics(common.MsgTTreeRead),
	common.MsgTTreeWrite:  newRequestMetrics(common.MsgTTreeWrite),
	common.MsgTTreeMkdir:  newRequestMetrics(common.MsgTTreeMkdir),
	common.MsgTTreeList:   newRequestMetrics(common.MsgTTreeList),
	common.MsgTTreeRemove: newRequestMetrics(common.MsgTTreeRemove),
}

var unknownRequestMetrics = newRequestMetrics(common.MsgTUnknown)

// requestMetricsFor returns the metrics of a message type, undecodable or unknown requests share one set
func requestMetricsFor(t common.MessageType) *requestMetrics {
	if m, ok := requestMetricsByType[t]; ok {
		return m
	}
	return unknownRequestMetrics
}
