package mcverify

import "github.com/prometheus/client_golang/prometheus"

// Metric name constants, following the teacher's indexer.Metric* naming
// convention (internal/indexer/metrics.go).
const (
	MetricBlocksDecoded  = "mcverify_blocks_decoded_total"
	MetricRecordsDecoded = "mcverify_records_decoded_total"
	MetricErrors         = "mcverify_errors_total"
)

// Metrics holds the Prometheus collectors cmd/mcverify reports through.
// All operations are thread-safe, though cmd/mcverify itself decodes
// one block at a time (spec.md §5's concurrency model stops at this
// module's boundary; the CLI adds no concurrency of its own).
type Metrics struct {
	blocksDecoded  prometheus.Counter
	recordsDecoded *prometheus.CounterVec // labeled by type tag
	errors         *prometheus.CounterVec // labeled by error kind
}

// NewMetrics builds an unregistered Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		blocksDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricBlocksDecoded,
			Help: "Total number of journal blocks successfully decoded",
		}),
		recordsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRecordsDecoded,
			Help: "Total number of records decoded, labeled by type tag",
		}, []string{"type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricErrors,
			Help: "Total number of decode errors, labeled by error kind",
		}, []string{"kind"}),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{m.blocksDecoded, m.recordsDecoded, m.errors}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncBlocksDecoded increments the decoded-block counter.
func (m *Metrics) IncBlocksDecoded() { m.blocksDecoded.Inc() }

// IncRecordDecoded increments the per-type-tag decoded-record counter.
func (m *Metrics) IncRecordDecoded(tag string) { m.recordsDecoded.WithLabelValues(tag).Inc() }

// IncError increments the per-kind error counter.
func (m *Metrics) IncError(kind string) { m.errors.WithLabelValues(kind).Inc() }
