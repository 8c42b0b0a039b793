// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
	themisXmetrics "github.com/xmidt-org/themis/xmetrics"

	"go.uber.org/fx"
)

// Names for our metrics
const (
	InterruptsDeliveredCounter = "interruptible_interrupts_delivered_count"
	CallsCancelledCounter      = "interruptible_calls_cancelled_count"
)

// help messages
const (
	interruptsDeliveredHelpMsg = "Counter for native interrupts delivered to worker threads on behalf of cancelled contexts"
	callsCancelledHelpMsg      = "Counter for blocking calls whose results were discarded in favor of a cancellation error"
)

// ProvideMetrics provides the metrics relevant to this package as uber/fx options.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: InterruptsDeliveredCounter,
			Help: interruptsDeliveredHelpMsg,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: CallsCancelledCounter,
			Help: callsCancelledHelpMsg,
		}),
	)
}

// Measures describes the defined metrics that will be used by an Interface
type Measures struct {
	InterruptsDelivered metrics.Counter
	CallsCancelled      metrics.Counter
}

// normalize replaces any nil counters with discards
func (m *Measures) normalize() *Measures {
	if m.InterruptsDelivered == nil {
		m.InterruptsDelivered = discard.NewCounter()
	}

	if m.CallsCancelled == nil {
		m.CallsCancelled = discard.NewCounter()
	}

	return m
}

// NewMeasures realizes the desired metrics from a go-kit provider.  A nil
// provider yields measures that discard everything.
func NewMeasures(p provider.Provider) *Measures {
	if p == nil {
		return &Measures{
			InterruptsDelivered: discard.NewCounter(),
			CallsCancelled:      discard.NewCounter(),
		}
	}

	return &Measures{
		InterruptsDelivered: p.NewCounter(InterruptsDeliveredCounter),
		CallsCancelled:      p.NewCounter(CallsCancelledCounter),
	}
}
