// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
)

// Thread represents a native thread that can be the target of an
// asynchronous interrupt.  Implementations are supplied by the thread
// package, or by tests.
type Thread interface {
	// Interrupt delivers an asynchronous native interrupt to this thread.
	// Safe to invoke from any goroutine.
	Interrupt()

	// ClearInterrupt absorbs any pending interrupt on this thread,
	// returning whether one was pending.  Must be invoked from the thread
	// itself.
	ClearInterrupt() bool
}

// Token is an idempotent unsubscription handle for a cancellation
// subscription.  The gate does not create Tokens; it only disposes the one
// attached to it.
type Token interface {
	Dispose()
}

type phase uint32

const (
	phaseInit phase = iota
	phaseWorking
	phaseFinishing
	phaseInterrupting
	phaseInterrupted
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "init"
	case phaseWorking:
		return "working"
	case phaseFinishing:
		return "finishing"
	case phaseInterrupting:
		return "interrupting"
	case phaseInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("invalid(%d)", uint32(p))
	}
}

// state is an immutable snapshot of a gate's condition.  Transitions swap
// the entire snapshot with a compare-and-swap; no field is mutated in place.
type state struct {
	phase  phase
	thread Thread
	token  Token
}

// Option is a configuration option for an Interrupt gate
type Option func(*Interrupt)

// WithInterruptsDelivered establishes a counter that is incremented each
// time the gate delivers a native interrupt to its worker thread.  Since a
// gate fires at most once, the counter is normally shared across many gate
// instances.  If nil, deliveries are discarded.
func WithInterruptsDelivered(c metrics.Counter) Option {
	return func(g *Interrupt) {
		if c != nil {
			g.interruptsDelivered = c
		} else {
			g.interruptsDelivered = discard.NewCounter()
		}
	}
}

// New constructs an unarmed Interrupt gate.  The returned gate is
// single-use: exactly one Arm followed by exactly one Disarm, after which it
// must be discarded.
func New(options ...Option) *Interrupt {
	g := &Interrupt{
		interruptsDelivered: discard.NewCounter(),
	}

	g.state.Store(&state{phase: phaseInit})

	for _, o := range options {
		o(g)
	}

	return g
}

// Interrupt is a per-invocation gate coordinating delivery of a native
// interrupt to the thread running a blocking operation.  Its single mutable
// field is an atomic reference to an immutable state snapshot; every
// transition is a compare-and-swap retry loop, and no transition blocks on a
// lock.
//
// Exactly two actors may touch a gate: the worker thread (Arm, AttachToken,
// Disarm) and the canceller (OnCancel), which may run on any thread.
// Methods invoked out of order panic, as that indicates the single-use
// contract was violated.
type Interrupt struct {
	state               atomic.Pointer[state]
	interruptsDelivered metrics.Counter
}

// Arm transitions the gate from init to working, recording the thread that
// is about to execute the blocking operation.  Arm panics if the gate has
// already been armed.
func (g *Interrupt) Arm(t Thread) {
	if t == nil {
		panic("gate: Arm requires a non-nil Thread")
	}

	for {
		s := g.state.Load()
		if s.phase != phaseInit {
			panic(fmt.Sprintf("gate: Arm while %s", s.phase))
		}

		if g.state.CompareAndSwap(s, &state{phase: phaseWorking, thread: t}) {
			return
		}
	}
}

// AttachToken records the cancellation subscription token while the gate is
// still working.  If cancellation fired before registration completed and
// the gate has already moved past working, AttachToken returns false without
// mutating the gate, and the caller must dispose the token itself.
func (g *Interrupt) AttachToken(t Token) bool {
	for {
		s := g.state.Load()
		switch s.phase {
		case phaseWorking:
			if s.token != nil {
				panic("gate: token already attached")
			}

			if g.state.CompareAndSwap(s, &state{phase: phaseWorking, thread: s.thread, token: t}) {
				return true
			}

		case phaseInterrupting, phaseInterrupted:
			// cancellation won the race against registration
			return false

		default:
			panic(fmt.Sprintf("gate: AttachToken while %s", s.phase))
		}
	}
}

// OnCancel is the cancellation callback.  It may be invoked from any thread,
// and tolerates duplicate invocation: only the call that wins the
// working-to-interrupting transition delivers the interrupt.
//
// The transition is deliberately split in three: claim (CAS to
// interrupting), act (the native interrupt call, which is not atomic with
// any state change), then mark done (store interrupted).  A worker observing
// interrupting knows an interrupt is in flight toward it and must not return
// to unrelated code until the store lands.
func (g *Interrupt) OnCancel() {
	for {
		s := g.state.Load()
		switch s.phase {
		case phaseWorking:
			next := &state{phase: phaseInterrupting, thread: s.thread, token: s.token}
			if !g.state.CompareAndSwap(s, next) {
				continue
			}

			s.thread.Interrupt()
			g.interruptsDelivered.Add(1.0)
			g.state.Store(&state{phase: phaseInterrupted, thread: s.thread, token: s.token})
			return

		case phaseFinishing, phaseInterrupting, phaseInterrupted:
			// work already finished, or another delivery got here first
			return

		default:
			panic(fmt.Sprintf("gate: OnCancel while %s", s.phase))
		}
	}
}

// Disarm is invoked by the worker thread once the blocking operation has
// returned, on every exit path.  It returns whether a native interrupt was
// delivered during the operation.
//
// From working, the gate moves to finishing and the subscription token is
// disposed: cancellation arriving after this point is benign and ignored.
// If the canceller has claimed interruption but not yet flagged the thread,
// Disarm spin-yields across that window rather than racing ahead; the window
// is bounded by the duration of a single native interrupt call.  Once
// interrupted, Disarm absorbs the thread's pending flag so it cannot leak
// into unrelated code scheduled on the same thread.
func (g *Interrupt) Disarm() bool {
	for {
		s := g.state.Load()
		switch s.phase {
		case phaseWorking:
			if !g.state.CompareAndSwap(s, &state{phase: phaseFinishing}) {
				continue
			}

			if s.token != nil {
				s.token.Dispose()
			}

			return false

		case phaseInterrupting:
			runtime.Gosched()

		case phaseInterrupted:
			s.thread.ClearInterrupt()
			if s.token != nil {
				s.token.Dispose()
			}

			return true

		default:
			panic(fmt.Sprintf("gate: Disarm while %s", s.phase))
		}
	}
}
