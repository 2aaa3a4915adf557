/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yiguolei/crate/go/planerrors"
)

const namespace = "planner"

// Metrics are the prometheus metrics of a Planner.
type Metrics struct {
	statements prometheus.Counter
	errors     *prometheus.CounterVec
	collapsed  prometheus.Counter
	subqueries prometheus.Counter
	latency    prometheus.Histogram
}

// NewMetrics creates the planner metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Number of statements planned, including failed ones.",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of statements that could not be planned, by error code.",
		}, []string{"code"}),
		collapsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collapsed_plans_total",
			Help:      "Number of logical plans that collapsing simplified.",
		}),
		subqueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subqueries_total",
			Help:      "Number of subqueries planned.",
		}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent planning a statement.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) observe(start time.Time, err error) {
	m.statements.Inc()
	m.latency.Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(planerrors.Code(err).String()).Inc()
	}
}
