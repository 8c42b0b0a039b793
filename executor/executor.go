// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"errors"
	"io"
	"runtime"
	"sync"

	// nolint: typecheck
	"sync/atomic"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned when work is submitted to a pool that has been closed
	ErrClosed = errors.New("executor: the pool has been closed")
)

const (
	stateOpen   int32 = 0
	stateClosed int32 = 1
)

// Interface is a fixed-size pool of OS-thread-pinned workers.  Once closed,
// a pool cannot be reopened.
//
// Close is idempotent: the first call drains in-flight tasks and waits for
// every worker to exit; subsequent calls return ErrClosed without waiting.
type Interface interface {
	io.Closer

	// Execute submits a task for execution on some pool thread.  It blocks
	// while the submission queue is full, and returns ErrClosed if the pool
	// is closed before the task could be accepted.  An accepted task always
	// runs exactly once, though one accepted while the pool is closing may
	// run on the submitting goroutine instead of a pool thread.  A nil task
	// panics.
	Execute(func()) error
}

// Option is a configuration option for a pool
type Option func(*pool)

// WithWorkers sets the number of pinned worker threads.  Nonpositive values
// are ignored, leaving the default of 1.
func WithWorkers(count int) Option {
	return func(p *pool) {
		if count > 0 {
			p.workers = count
		}
	}
}

// WithQueueDepth sets the submission queue capacity.  Negative values are
// ignored, leaving the default of 0 (handoff only, Execute blocks until a
// worker is free).
func WithQueueDepth(depth int) Option {
	return func(p *pool) {
		if depth >= 0 {
			p.depth = depth
		}
	}
}

// WithLogger sets a zap logger for pool lifecycle events and recovered task
// panics.  If nil, the sallust default is used.
func WithLogger(l *zap.Logger) Option {
	return func(p *pool) {
		if l == nil {
			p.logger = sallust.Default()
		} else {
			p.logger = l
		}
	}
}

// WithTasksExecuted establishes a counter for completed tasks.  If nil,
// counts are discarded.
func WithTasksExecuted(c metrics.Counter) Option {
	return func(p *pool) {
		if c != nil {
			p.tasksExecuted = c
		} else {
			p.tasksExecuted = discard.NewCounter()
		}
	}
}

// WithOptions applies an externally unmarshalled Options, e.g. from viper.
// A nil Options is a no-op.
func WithOptions(o *Options) Option {
	return func(p *pool) {
		if o != nil {
			p.workers = o.workers()
			p.depth = o.queueDepth()
		}
	}
}

// New constructs and starts a pool.  By default the pool has a single
// worker and no submission queue.
func New(options ...Option) Interface {
	p := &pool{
		logger:        sallust.Default(),
		workers:       1,
		closed:        make(chan struct{}),
		tasksExecuted: discard.NewCounter(),
	}

	for _, o := range options {
		o(p)
	}

	p.tasks = make(chan func(), p.depth)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.work()
	}

	p.logger.Debug("executor pool started", zap.Int("workers", p.workers), zap.Int("queueDepth", p.depth))
	return p
}

// pool is the internal Interface implementation
type pool struct {
	logger  *zap.Logger
	workers int
	depth   int

	tasks chan func()

	state int32
	// nolint: typecheck
	closed chan struct{}
	wg     sync.WaitGroup

	tasksExecuted metrics.Counter
}

func (p *pool) Execute(task func()) error {
	if task == nil {
		panic("executor: a non-nil task is required")
	}

	select {
	// nolint: typecheck
	case <-p.closed:
		return ErrClosed
	default:
	}

	select {
	case p.tasks <- task:
		// when both cases were ready the select's choice was arbitrary, and
		// the queued task may have missed every worker's drain as well as
		// Close's.  Draining here guarantees an accepted task is never
		// stranded in the buffer: whichever of this submitter, a worker, or
		// Close observes it runs it.
		select {
		// nolint: typecheck
		case <-p.closed:
			p.drain()
		default:
		}

		return nil

		// nolint: typecheck
	case <-p.closed:
		return ErrClosed
	}
}

func (p *pool) Close() error {
	if atomic.CompareAndSwapInt32(&p.state, stateOpen, stateClosed) {
		// nolint: typecheck
		close(p.closed)
		p.wg.Wait()

		// stragglers accepted while the workers were exiting
		p.drain()

		p.logger.Debug("executor pool closed")
		return nil
	}

	return ErrClosed
}

// work is a worker's main loop.  The goroutine locks itself to its thread
// and never unlocks: when it exits on close, the runtime retires the thread
// rather than reusing it, so no pending interrupt can outlive the pool.
func (p *pool) work() {
	defer p.wg.Done()
	runtime.LockOSThread()

	for {
		select {
		case task := <-p.tasks:
			p.run(task)

			// nolint: typecheck
		case <-p.closed:
			p.drain()
			return
		}
	}
}

// drain runs queued tasks until the buffer is empty
func (p *pool) drain() {
	for {
		select {
		case task := <-p.tasks:
			p.run(task)
		default:
			return
		}
	}
}

func (p *pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panic", zap.Any("recover", r))
		}
	}()

	task()
	p.tasksExecuted.Add(1.0)
}
