// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	themisXmetrics "github.com/xmidt-org/themis/xmetrics"

	"go.uber.org/fx"
)

// Names for our metrics
const (
	TasksExecutedCounter = "executor_tasks_executed_count"
)

// help messages
const (
	tasksExecutedHelpMsg = "Counter for tasks run to completion on pool threads"
)

// ProvideMetrics provides the metrics relevant to this package as uber/fx options.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: TasksExecutedCounter,
			Help: tasksExecutedHelpMsg,
		}),
	)
}
