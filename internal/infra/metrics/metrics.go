package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

// RPCCallDuration records how long successful blockchain calls took, retries included.
type RPCCallDuration struct {
	hist *prometheus.HistogramVec
}

// NewRPCCallDuration registers blockchain_rpc_call_duration_seconds with reg.
func NewRPCCallDuration(reg prometheus.Registerer) *RPCCallDuration {
	return &RPCCallDuration{
		hist: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blockchain_rpc_call_duration_seconds",
				Help:    "Duration of blockchain RPC calls in seconds, measured across retries",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"function"},
		),
	}
}

func (m *RPCCallDuration) StartTimer() resilience.StopFunc {
	start := time.Now()
	return func(function string) {
		m.hist.WithLabelValues(function).Observe(time.Since(start).Seconds())
	}
}

// LatestBlock tracks the newest block number announced by the provider.
type LatestBlock struct {
	gauge prometheus.Gauge
}

// NewLatestBlock registers blockchain_latest_block with reg.
func NewLatestBlock(reg prometheus.Registerer) *LatestBlock {
	return &LatestBlock{
		gauge: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "blockchain_latest_block",
			Help: "Latest block number announced by the provider",
		}),
	}
}

func (m *LatestBlock) Set(number uint64) {
	m.gauge.Set(float64(number))
}
