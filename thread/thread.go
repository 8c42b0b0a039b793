// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package thread

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrInterrupted is returned by CheckInterrupt, and may be returned by any
// blocking operation that detects a pending interrupt on its thread.
var ErrInterrupted = errors.New("thread: interrupted")

// registry maps thread ids (goroutine ids on platforms without a native
// thread id, see the platform files) to their interrupt flags.  Entries are
// never removed; on linux the registry is bounded by the number of distinct
// threads the process has executed Current on.
var registry sync.Map

type interruptFlag struct {
	pending atomic.Bool
}

// Handle identifies an OS thread for the purpose of interruption.  The zero
// value is not usable; obtain Handles via Current.
//
// A Handle is a plain value and may be passed to another goroutine, which is
// how a canceller interrupts a worker thread it does not occupy.
type Handle struct {
	id   int
	flag *interruptFlag
}

// Current returns a Handle for the calling OS thread.  The caller must be
// locked to its thread via runtime.LockOSThread, and must remain locked for
// as long as the Handle is used to target it.
func Current() Handle {
	id := currentID()
	f, _ := registry.LoadOrStore(id, new(interruptFlag))
	return Handle{
		id:   id,
		flag: f.(*interruptFlag),
	}
}

// ID returns the OS-level identifier for this thread, e.g. the value of
// gettid(2) on linux.
func (h Handle) ID() int {
	return h.id
}

// Interrupt delivers an asynchronous interrupt to this thread.  The thread's
// pending flag is raised first, so that the flag is always observable by the
// time any native wakeup arrives.  Interrupt is safe to call from any
// goroutine and is idempotent while the flag remains pending.
func (h Handle) Interrupt() {
	h.flag.pending.Store(true)

	// best effort: a failed native delivery still leaves the flag raised
	notify(h.id) // nolint: errcheck
}

// Pending reports whether an interrupt has been delivered to this thread and
// not yet cleared.
func (h Handle) Pending() bool {
	return h.flag.pending.Load()
}

// ClearInterrupt absorbs any pending interrupt on this thread, returning
// whether one was pending.  This must be invoked from the thread itself,
// before control returns to code unrelated to the interrupted operation.
func (h Handle) ClearInterrupt() bool {
	return h.flag.pending.Swap(false)
}

// Interrupted reports whether the calling thread has a pending interrupt.
// As with Current, the caller must be locked to its OS thread.
func Interrupted() bool {
	return Current().Pending()
}

// CheckInterrupt returns ErrInterrupted if the calling thread has a pending
// interrupt, and nil otherwise.  Blocking operations built on polling loops
// use this to surface interruption as an ordinary error.
func CheckInterrupt() error {
	if Interrupted() {
		return ErrInterrupted
	}

	return nil
}
