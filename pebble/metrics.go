// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "curve_db"
	sampleInterval   = 10 * time.Second

	opInsert = "insert"
	opRemove = "remove"

	levelZero   = "l0"
	levelDeeper = "deeper"
)

// sample is a gauge refreshed from the engine's own counters.
type sample struct {
	gauge prometheus.Gauge
	read  func(*pebble.Metrics) float64
}

type metrics struct {
	stallStart time.Time
	stall      metric.Averager
	read       metric.Averager
	commit     metric.Averager

	writes      *prometheus.CounterVec
	commits     prometheus.Counter
	compactions *prometheus.CounterVec
	compacting  prometheus.Gauge

	samples []sample
}

func newSample(name, help string, read func(*pebble.Metrics) float64) sample {
	return sample{
		gauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}),
		read: read,
	}
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writes",
			Help:      "curve state keys written or removed",
		}, []string{"op"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commits",
			Help:      "trade and graduation batches made durable",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compactions",
			Help:      "compactions started, by input level",
		}, []string{"level"}),
		compacting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "compacting",
			Help:      "compactions in flight",
		}),
		samples: []sample{
			newSample("disk_usage", "bytes on disk held by the curve database", func(pm *pebble.Metrics) float64 {
				return float64(pm.DiskSpaceUsage())
			}),
			newSample("tombstones", "deleted keys not yet compacted away", func(pm *pebble.Metrics) float64 {
				return float64(pm.Keys.TombstoneCount)
			}),
			newSample("unreferenced_table_bytes", "bytes in tables waiting to be deleted", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ObsoleteSize)
			}),
			newSample("unreferenced_tables", "tables waiting to be deleted", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ObsoleteCount)
			}),
			newSample("pinned_table_bytes", "bytes in dropped tables still held open by a reader", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ZombieSize)
			}),
			newSample("pinned_tables", "dropped tables still held open by a reader", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ZombieCount)
			}),
			newSample("stale_wal_bytes", "bytes in log files already flushed", func(pm *pebble.Metrics) float64 {
				return float64(pm.WAL.ObsoletePhysicalSize)
			}),
			newSample("stale_wal_files", "log files already flushed", func(pm *pebble.Metrics) float64 {
				return float64(pm.WAL.ObsoleteFiles)
			}),
		},
	}

	errs := wrappers.Errs{}
	for _, avg := range []struct {
		dst  *metric.Averager
		name string
		help string
	}{
		{&m.stall, "curve_db_write_stall", "time writes waited on a stalled engine"},
		{&m.read, "curve_db_read", "time spent loading a curve state key"},
		{&m.commit, "curve_db_commit", "time spent persisting a batch"},
	} {
		a, err := metric.NewAverager(avg.name, avg.help, r)
		if err != nil {
			return nil, nil, err
		}
		*avg.dst = a
	}
	errs.Add(
		r.Register(m.writes),
		r.Register(m.commits),
		r.Register(m.compactions),
		r.Register(m.compacting),
	)
	for _, s := range m.samples {
		errs.Add(r.Register(s.gauge))
	}
	return r, m, errs.Err
}

func (m *metrics) wrote(op string) {
	m.writes.WithLabelValues(op).Inc()
}

func (d *Database) onCompactionBegin(info pebble.CompactionInfo) {
	d.metrics.compacting.Inc()
	level := levelDeeper
	if info.Input[0].Level == 0 {
		level = levelZero
	}
	d.metrics.compactions.WithLabelValues(level).Inc()
}

func (d *Database) onCompactionEnd(pebble.CompactionInfo) {
	d.metrics.compacting.Dec()
}

func (d *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	d.metrics.stallStart = time.Now()
}

func (d *Database) onWriteStallEnd() {
	d.metrics.stall.Observe(float64(time.Since(d.metrics.stallStart)))
}

// sampleMetrics refreshes the sampled gauges until the database closes.
func (d *Database) sampleMetrics() {
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm := d.db.Metrics()
			for _, s := range d.metrics.samples {
				s.gauge.Set(s.read(pm))
			}
		case <-d.closing:
			return
		}
	}
}
