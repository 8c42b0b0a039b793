// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"github.com/spf13/viper"
)

const (
	// ExecutorKey is the Viper subkey under which pool configuration should
	// be stored.  FromViper *does not* assume this key.
	ExecutorKey = "executor"
)

// Options stores the externally-supplied configuration for a pool
type Options struct {
	// Workers is the number of pinned worker threads.  Nonpositive values
	// fall back to the default of 1.
	Workers int `json:"workers"`

	// QueueDepth is the submission queue capacity.  Negative values fall
	// back to the default of 0.
	QueueDepth int `json:"queueDepth"`
}

func (o *Options) workers() int {
	if o != nil && o.Workers > 0 {
		return o.Workers
	}

	return 1
}

func (o *Options) queueDepth() int {
	if o != nil && o.QueueDepth > 0 {
		return o.QueueDepth
	}

	return 0
}

// Sub returns the standard child Viper, using ExecutorKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ExecutorKey)
	}

	return nil
}

// FromViper produces an Options from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}
