// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are shared by every token shard of a runtime.
type Metrics struct {
	buys        prometheus.Counter
	sells       prometheus.Counter
	transfers   prometheus.Counter
	graduations prometheus.Counter
	graduated   prometheus.Counter
	rejected    prometheus.Counter
	dropped     prometheus.Counter
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		buys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "buys",
			Help:      "number of successful buys",
		}),
		sells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "sells",
			Help:      "number of successful sells",
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "transfers",
			Help:      "number of successful delegated transfers",
		}),
		graduations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "graduations",
			Help:      "number of curves that reached graduation",
		}),
		graduated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "graduated",
			Help:      "number of tokens whose pool was confirmed",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "rejected",
			Help:      "number of operations that failed",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "token",
			Name:      "dropped_messages",
			Help:      "number of messages consumed without effect",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.buys),
		r.Register(m.sells),
		r.Register(m.transfers),
		r.Register(m.graduations),
		r.Register(m.graduated),
		r.Register(m.rejected),
		r.Register(m.dropped),
	)
	return m, errs.Err
}
