// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

import (
	"context"
	"errors"
	"runtime"

	"github.com/xmidt-org/interruptible/gate"
	"github.com/xmidt-org/interruptible/thread"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Interface runs blocking operations under an ambient context, converting
// the context's cancellation into a native interrupt of the running thread.
type Interface interface {
	// Run invokes op, which is expected to block non-cooperatively.  If ctx
	// is cancelled while op is in flight, op's thread receives a native
	// interrupt and Run returns a *CancelledError.  Otherwise op's result
	// passes through unchanged.
	//
	// A nil ctx, or a ctx whose Done channel is nil, disables interruption
	// entirely: op is invoked inline with no synchronization of any kind.
	Run(ctx context.Context, op func() error) error
}

// Executor relocates work onto another execution context, such as a pool of
// dedicated OS threads.  Implementations must eventually invoke the given
// task exactly once, or return an error without invoking it.
type Executor interface {
	Execute(func()) error
}

// Threads provides the native-thread capability consumed by this package.
// The default implementation is backed by the thread package; tests may
// substitute their own.
type Threads interface {
	// Current returns a handle for the calling OS thread.  Run only invokes
	// this while locked to the thread via runtime.LockOSThread.
	Current() gate.Thread
}

type systemThreads struct{}

func (systemThreads) Current() gate.Thread {
	return thread.Current()
}

// Option is a configuration option for the Interface returned by New
type Option func(*runner)

// WithLogger sets a zap logger used to trace interrupt activity at debug
// level.  If nil, the sallust default is used.
func WithLogger(l *zap.Logger) Option {
	return func(r *runner) {
		if l == nil {
			r.logger = sallust.Default()
		} else {
			r.logger = l
		}
	}
}

// WithThreads replaces the native-thread substrate.  Passing nil restores
// the default, which is backed by the thread package.
func WithThreads(t Threads) Option {
	return func(r *runner) {
		if t == nil {
			r.threads = systemThreads{}
		} else {
			r.threads = t
		}
	}
}

// WithExecutor relocates every slow-path operation onto e before arming
// interruption, suspending the calling goroutine until the operation has
// run to completion there.  The fast path is unaffected.  If nil,
// operations run on the caller's own thread.
func WithExecutor(e Executor) Option {
	return func(r *runner) {
		r.executor = e
	}
}

// WithMeasures establishes the metrics recorded by this instance.  If nil,
// all metrics are discarded.
func WithMeasures(m *Measures) Option {
	return func(r *runner) {
		if m == nil {
			m = NewMeasures(nil)
		}

		r.measures = m.normalize()
	}
}

// New produces an Interface from a set of options.
func New(options ...Option) Interface {
	r := &runner{
		logger:   sallust.Default(),
		threads:  systemThreads{},
		measures: NewMeasures(nil),
	}

	for _, o := range options {
		o(r)
	}

	return r
}

var defaultRunner = New()

// Default returns a global Interface with default options and no executor.
// This instance is safe for concurrent use.
func Default() Interface {
	return defaultRunner
}

// Run is shorthand for Default().Run(ctx, op).
func Run(ctx context.Context, op func() error) error {
	return defaultRunner.Run(ctx, op)
}

// Call adapts Run to operations that produce a value.  When i is nil, the
// Default instance is used.
func Call[T any](i Interface, ctx context.Context, op func() (T, error)) (T, error) {
	if i == nil {
		i = defaultRunner
	}

	var value T
	err := i.Run(ctx, func() (opErr error) {
		value, opErr = op()
		return
	})

	return value, err
}

// runner is the internal Interface implementation
type runner struct {
	logger   *zap.Logger
	threads  Threads
	executor Executor
	measures *Measures
}

func (r *runner) Run(ctx context.Context, op func() error) error {
	if op == nil {
		panic("interruptible: a non-nil operation is required")
	}

	if ctx == nil || ctx.Done() == nil {
		// nothing can cancel: invoke inline with zero overhead
		return op()
	}

	if r.executor != nil {
		return r.relocate(ctx, op)
	}

	return r.call(ctx, op)
}

type outcome struct {
	err      error
	panicked any
}

// relocate submits the armed invocation to the configured executor and
// suspends the caller until it completes.  A panic in op is re-raised on
// the calling goroutine.
func (r *runner) relocate(ctx context.Context, op func() error) error {
	result := make(chan outcome, 1)
	err := r.executor.Execute(func() {
		defer func() {
			if v := recover(); v != nil {
				result <- outcome{panicked: v}
			}
		}()

		result <- outcome{err: r.call(ctx, op)}
	})

	if err != nil {
		return err
	}

	o := <-result
	if o.panicked != nil {
		panic(o.panicked)
	}

	return o.err
}

// call is the slow path: arm a gate around op and translate any native
// interruption into a *CancelledError.
func (r *runner) call(ctx context.Context, op func() error) error {
	// the gate targets a specific thread; the goroutine must not migrate
	// between Arm and Disarm
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	g := gate.New(
		gate.WithInterruptsDelivered(r.measures.InterruptsDelivered),
	)

	g.Arm(r.threads.Current())

	tok := subscribeOnCancelling(ctx, true, g.OnCancel)
	if !g.AttachToken(tok) {
		tok.Dispose()
	}

	var (
		opErr       error
		interrupted bool
	)

	func() {
		defer func() {
			interrupted = g.Disarm()
		}()

		opErr = op()
	}()

	if errors.Is(opErr, thread.ErrInterrupted) || (interrupted && opErr != nil) {
		cause := context.Cause(ctx)
		if cause == nil {
			cause = context.Canceled
		}

		r.measures.CallsCancelled.Add(1.0)
		r.logger.Debug("blocking operation torn down", zap.Error(cause))
		return &CancelledError{Cause: cause}
	}

	return opErr
}
