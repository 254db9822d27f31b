// Package metrics exports table statistics to Prometheus
package metrics

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/scottcagno/hashtable/pkg/hashmap/chained"
)

const namespace = "chtab"

// Source is anything that can report table statistics, in practice a
// *chained.Table of any element type
type Source interface {
	Stats() chained.Stats
}

// Collector is a prometheus.Collector that snapshots a table's Stats
// on every scrape
type Collector struct {
	src      Source
	elements *prometheus.Desc
	buckets  *prometheus.Desc
	used     *prometheus.Desc
	longest  *prometheus.Desc
	grows    *prometheus.Desc
}

// NewCollector returns a collector for src labelled with table=name
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"table": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "table", metric), help, nil, labels)
	}
	return &Collector{
		src:      src,
		elements: desc("elements", "Number of live elements."),
		buckets:  desc("buckets", "Number of buckets."),
		used:     desc("used_buckets", "Number of non-empty buckets."),
		longest:  desc("longest_chain", "Length of the longest bucket chain."),
		grows:    desc("grows_total", "Number of times the table doubled."),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.elements
	ch <- c.buckets
	ch <- c.used
	ch <- c.longest
	ch <- c.grows
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.elements, prometheus.GaugeValue, float64(st.Len))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(st.Cap))
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(st.Used))
	ch <- prometheus.MustNewConstMetric(c.longest, prometheus.GaugeValue, float64(st.LongestChain))
	ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(st.Grows))
}

// WriteText gathers g and writes it to w in the Prometheus text format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "metrics: gathering")
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "metrics: encoding")
		}
	}
	return nil
}
