// Copyright 2024 The cds-pg-sub004 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package csn

import (
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// phaseDuration and messagesTotal are the metrics the ambient tracing/
// metrics stack adds alongside opentracing spans (SPEC_FULL.md "Tracing/
// metrics"): per-phase wall-clock time, and a running count of every
// message a Sink has ever recorded, broken down by severity. promauto
// registers both against the default registry exactly once, the same
// package-level-collector idiom most prometheus/client_golang consumers
// use for process-wide metrics.
var (
	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "cds_compile_phase_duration_seconds",
		Help: "Wall-clock duration of a single compile pipeline phase.",
	}, []string{"phase"})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cds_compile_messages_total",
		Help: "Diagnostic messages recorded by a Sink, by severity.",
	}, []string{"severity"})
)

// timedSpan wraps an opentracing.Span so Finish also stops a prometheus
// timer; every other method is promoted from the embedded Span unchanged.
type timedSpan struct {
	opentracing.Span
	timer *prometheus.Timer
}

func (s *timedSpan) Finish() {
	s.timer.ObserveDuration()
	s.Span.Finish()
}
