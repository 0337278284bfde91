// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the parser and registry
// update as they run. Stats() exposes the same counters to library
// callers that don't want Prometheus, and Metrics exposes them to a
// scrape endpoint for callers that do (see cmd/ad2mon).
type Metrics struct {
	framesTotal           prometheus.Counter
	ringErrorTotal        prometheus.Counter
	frameTooLongTotal     prometheus.Counter
	noisyByteTotal        prometheus.Counter
	malformedKeypadTotal  prometheus.Counter
	unknownPrefixTotal    prometheus.Counter
	partitionsGauge       prometheus.Gauge
	dispatchTotal         *prometheus.CounterVec
}

// NewMetrics registers the ad2 parser's collectors against reg. Pass
// prometheus.DefaultRegisterer for process-global metrics, or a
// dedicated *prometheus.Registry in tests to avoid collisions between
// parser instances.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		framesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "frames_total",
			Help:      "Complete frames emitted by the ring framer.",
		}),
		ringErrorTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "ring_error_total",
			Help:      "Times the ring buffer evicted a byte before a terminator arrived.",
		}),
		frameTooLongTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "frame_too_long_total",
			Help:      "Frames discarded for exceeding the maximum message size.",
		}),
		noisyByteTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "noisy_byte_total",
			Help:      "Non-printable bytes that aborted an in-progress frame.",
		}),
		malformedKeypadTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "malformed_keypad_total",
			Help:      "Bracketed frames that failed keypad layout validation.",
		}),
		unknownPrefixTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "unknown_prefix_total",
			Help:      "Frames with neither a '[' nor a '!' prefix.",
		}),
		partitionsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ad2",
			Name:      "partitions",
			Help:      "Live partition records held by the registry.",
		}),
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ad2",
			Name:      "dispatch_total",
			Help:      "Events dispatched to subscribers, by kind.",
		}, []string{"kind"}),
	}
}
