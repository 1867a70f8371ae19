package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector exports Stats as Prometheus counters.
type Collector struct {
	stats     *Stats
	generated *prometheus.Desc
	faults    *prometheus.Desc
}

// NewCollector creates a collector; constLabels are attached to every metric
// (for example the strategy name).
func NewCollector(stats *Stats, constLabels prometheus.Labels) *Collector {
	return &Collector{
		stats: stats,
		generated: prometheus.NewDesc(
			"frostflake_ids_generated_total",
			"Number of identifiers generated.",
			nil, constLabels,
		),
		faults: prometheus.NewDesc(
			"frostflake_faults_total",
			"Number of failed generate calls by fault kind.",
			[]string{"kind"}, constLabels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.generated
	ch <- c.faults
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.stats.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.generated, prometheus.CounterValue, float64(snapshot.Generated))
	for _, kind := range Kinds {
		ch <- prometheus.MustNewConstMetric(c.faults, prometheus.CounterValue, float64(snapshot.Faults[kind]), kind)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
