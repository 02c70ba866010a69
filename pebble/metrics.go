// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const (
	namespace       = "state_db"
	metricsInterval = 10 * time.Second
)

// metrics follow the shard write path: every operation or message a
// shard accepts is one batch commit.
type metrics struct {
	reads   metric.Averager
	commits metric.Averager
	keys    prometheus.Counter
	deletes prometheus.Counter

	// Unix nanos of the running stall, zero when writes flow.
	stalledAt atomic.Int64
	stalls    metric.Averager

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	diskUsage  prometheus.Gauge
	tombstones prometheus.Gauge
	walSize    prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	errs := wrappers.Errs{}
	averager := func(name, help string) metric.Averager {
		return metric.NewAveragerWithErrs("", metric.AppendNamespace(namespace, name), help, r, &errs)
	}
	m := &metrics{
		reads:   averager("read_latency", "time spent in point reads"),
		commits: averager("commit_latency", "time spent committing a shard batch"),
		stalls:  averager("write_stall", "time writes were held back by compaction debt"),
		keys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_written",
			Help:      "number of keys set by committed batches",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_deleted",
			Help:      "number of keys deleted by committed batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage",
			Help:      "bytes on disk used by the store",
		}),
		tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstones",
			Help:      "approximate number of deletion markers not yet compacted away",
		}),
		walSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wal_size",
			Help:      "live bytes in the write-ahead log",
		}),
	}
	errs.Add(
		r.Register(m.keys),
		r.Register(m.deletes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.diskUsage),
		r.Register(m.tombstones),
		r.Register(m.walSize),
	)
	return m, errs.Err
}

func (m *metrics) observeRead(start time.Time) {
	m.reads.Observe(float64(time.Since(start)))
}

func (m *metrics) observeCommit(start time.Time, b *batch) {
	m.commits.Observe(float64(time.Since(start)))
	for _, op := range b.Ops {
		if op.Delete {
			m.deletes.Inc()
		} else {
			m.keys.Inc()
		}
	}
}

func (m *metrics) listener() *pebble.EventListener {
	return &pebble.EventListener{
		CompactionBegin: func(info pebble.CompactionInfo) {
			m.activeCompactions.Inc()
			level := "base"
			if len(info.Input) > 0 && info.Input[0].Level == 0 {
				level = "l0"
			}
			m.compactions.WithLabelValues(level).Inc()
		},
		CompactionEnd: func(pebble.CompactionInfo) {
			m.activeCompactions.Dec()
		},
		WriteStallBegin: func(pebble.WriteStallBeginInfo) {
			m.stalledAt.Store(time.Now().UnixNano())
		},
		WriteStallEnd: func() {
			if start := m.stalledAt.Swap(0); start != 0 {
				m.stalls.Observe(float64(time.Now().UnixNano() - start))
			}
		},
	}
}

// collect samples store-wide gauges until [closing] is closed.
func (m *metrics) collect(db *pebble.DB, closing <-chan struct{}) {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		m.sample(db)
		select {
		case <-t.C:
		case <-closing:
			return
		}
	}
}

func (m *metrics) sample(db *pebble.DB) {
	stats := db.Metrics()
	m.diskUsage.Set(float64(stats.DiskSpaceUsage()))
	m.tombstones.Set(float64(stats.Keys.TombstoneCount))
	m.walSize.Set(float64(stats.WAL.Size))
}
