package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lddc"
const subsystem = "config"

// Collector records configuration store activity in Prometheus counters.
// It satisfies config.Recorder.
type Collector struct {
	registry *prometheus.Registry

	writes           *prometheus.CounterVec
	persistFailures  prometheus.Counter
	loads            *prometheus.CounterVec
	reconcileDiscard *prometheus.CounterVec
	notifyFailures   *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "writes_total",
			Help:      "Store mutations by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "persist_failures_total",
			Help:      "Failed writes of the configuration file.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "loads_total",
			Help:      "Loads of the configuration file by result.",
		}, []string{"result"}),
		reconcileDiscard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_discarded_total",
			Help:      "Persisted values dropped because their shape did not match.",
		}, []string{"key"}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notify_failures_total",
			Help:      "Change subscribers that failed, by group.",
		}, []string{"group"}),
	}

	for _, col := range []prometheus.Collector{
		c.writes,
		c.persistFailures,
		c.loads,
		c.reconcileDiscard,
		c.notifyFailures,
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry holding the store metrics, for a serving
// layer to expose.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordWrite counts a set or delete.
func (c *Collector) RecordWrite(op string) {
	c.writes.WithLabelValues(op).Inc()
}

// RecordPersistFailure counts a failed file write.
func (c *Collector) RecordPersistFailure() {
	c.persistFailures.Inc()
}

// RecordLoad counts a load attempt by result.
func (c *Collector) RecordLoad(result string) {
	c.loads.WithLabelValues(result).Inc()
}

// RecordReconcileDiscard counts a persisted value dropped during reconcile.
func (c *Collector) RecordReconcileDiscard(key string) {
	c.reconcileDiscard.WithLabelValues(key).Inc()
}

// RecordNotifyFailure counts a failed subscriber.
func (c *Collector) RecordNotifyFailure(group string) {
	c.notifyFailures.WithLabelValues(group).Inc()
}

// Summary returns one "name{labels} value" line per non-zero series,
// sorted, for printing at the end of a CLI run.
func (c *Collector) Summary() ([]string, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, value))
		}
	}
	sort.Strings(lines)
	return lines, nil
}
