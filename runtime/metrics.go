// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	shards    prometheus.Gauge
	delivered prometheus.Counter
	retries   prometheus.Counter
	dropped   prometheus.Counter
	submitted prometheus.Counter
}

func newMetrics(r prometheus.Registerer, pending func() float64) (*metrics, error) {
	m := &metrics{
		shards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "runtime",
			Name:      "shards",
			Help:      "number of running shards",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "delivered",
			Help:      "number of messages handled by their destination",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "retries",
			Help:      "number of tracked deliveries that had to be retried",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "dropped",
			Help:      "number of messages that were never handled",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "submitted",
			Help:      "number of operations submitted",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.shards),
		r.Register(m.delivered),
		r.Register(m.retries),
		r.Register(m.dropped),
		r.Register(m.submitted),
		r.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "runtime",
			Name:      "pending",
			Help:      "number of queued operations and messages",
		}, pending)),
	)
	return m, errs.Err
}
