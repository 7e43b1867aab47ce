// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "cfx_account"

type metrics struct {
	submissions     *prometheus.CounterVec
	nonceAdvances   prometheus.Counter
	transportErrors prometheus.Counter
}

func newMetrics(address cfxaddress.Address) metrics {
	labels := prometheus.Labels{"address": address.String()}

	return metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Help:        "Raw transaction submissions by outcome",
				Name:        "submissions_total",
				Namespace:   metricsNamespace,
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		nonceAdvances: prometheus.NewCounter(
			prometheus.CounterOpts{
				Help:        "Local nonce advances",
				Name:        "nonce_advances_total",
				Namespace:   metricsNamespace,
				ConstLabels: labels,
			},
		),
		transportErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Help:        "Submissions that did not reach the node",
				Name:        "transport_errors_total",
				Namespace:   metricsNamespace,
				ConstLabels: labels,
			},
		),
	}
}

// Metrics returns the collectors of the account, ready to be registered.
func (a *Account) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		a.metrics.submissions,
		a.metrics.nonceAdvances,
		a.metrics.transportErrors,
	}
}
