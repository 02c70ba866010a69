// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	launches     prometheus.Counter
	initialized  prometheus.Counter
	updates      prometheus.Counter
	staleUpdates prometheus.Counter
	rejected     prometheus.Counter
	dropped      prometheus.Counter
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		launches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "launches",
			Help:      "number of tokens created",
		}),
		initialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "initialized",
			Help:      "number of token shards that acknowledged initialization",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "updates",
			Help:      "number of launch updates applied to the registry",
		}),
		staleUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "stale_updates",
			Help:      "number of launch updates ignored as stale or duplicate",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "rejected",
			Help:      "number of operations that failed",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "factory",
			Name:      "dropped_messages",
			Help:      "number of messages consumed without effect",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.launches),
		r.Register(m.initialized),
		r.Register(m.updates),
		r.Register(m.staleUpdates),
		r.Register(m.rejected),
		r.Register(m.dropped),
	)
	return m, errs.Err
}
