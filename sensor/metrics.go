package sensor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Transaction results used as metric labels.
const (
	resultOK        = "ok"
	resultDevice    = "device_error"
	resultTimeout   = "timeout"
	resultFraming   = "framing_error"
	resultChecksum  = "checksum_error"
	resultTransport = "transport_error"
	resultInvalid   = "invalid_argument"
)

// Metrics holds the Prometheus collectors updated by a Sensor.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transactions  *prometheus.CounterVec   // labels: command, result
	Duration      *prometheus.HistogramVec // labels: command
	ReadAttempts  prometheus.Counter
	BytesSent     prometheus.Counter
	BytesReceived prometheus.Counter
}

// NewMetrics creates the sensor collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ad013_transactions_total",
			Help: "Sensor transactions by command and result.",
		}, []string{"command", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ad013_transaction_duration_seconds",
			Help:    "Time from request write to decoded response.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"command"}),
		ReadAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ad013_read_attempts_total",
			Help: "Read calls issued while waiting for responses.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ad013_bytes_sent_total",
			Help: "Bytes written to the sensor.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ad013_bytes_received_total",
			Help: "Bytes read from the sensor.",
		}),
	}
	reg.MustRegister(m.Transactions, m.Duration, m.ReadAttempts, m.BytesSent, m.BytesReceived)
	return m
}

func (m *Metrics) observe(command, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(command, result).Inc()
	m.Duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) readAttempt(n int) {
	if m == nil {
		return
	}
	m.ReadAttempts.Inc()
	m.BytesReceived.Add(float64(n))
}

func (m *Metrics) sent(n int) {
	if m == nil {
		return
	}
	m.BytesSent.Add(float64(n))
}
