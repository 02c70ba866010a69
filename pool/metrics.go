// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	pools      prometheus.Counter
	duplicates prometheus.Counter
	rejected   prometheus.Counter
	dropped    prometheus.Counter
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pools: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pool",
			Name:      "pools",
			Help:      "number of locked pools created",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pool",
			Name:      "duplicate_graduations",
			Help:      "number of graduation requests for an existing pool",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pool",
			Name:      "rejected",
			Help:      "number of operations that failed",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pool",
			Name:      "dropped_messages",
			Help:      "number of messages consumed without effect",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.pools),
		r.Register(m.duplicates),
		r.Register(m.rejected),
		r.Register(m.dropped),
	)
	return m, errs.Err
}
