package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slicealloc"

// 分配运行结果标签
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeCached = "cached"
)

// Metrics holds the allocator's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Runs         *prometheus.CounterVec
	Rows         prometheus.Counter
	RunDuration  prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics 在 reg 上注册指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_runs_total",
			Help:      "Allocation runs by outcome.",
		}, []string{"outcome"}),
		Rows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_rows_total",
			Help:      "Slice rows that received an allocation.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_run_duration_seconds",
			Help:      "Time spent parsing, transforming and predicting one upload.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveRun 记录一次分配运行
func (m *Metrics) ObserveRun(outcome string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.Rows.Add(float64(rows))
		m.RunDuration.Observe(d.Seconds())
	}
}

// ObserveRequest 记录一次HTTP请求
func (m *Metrics) ObserveRequest(method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method).Observe(d.Seconds())
}
