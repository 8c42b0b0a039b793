// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package thread exposes the small set of native thread primitives needed to
interrupt a blocking call: identifying the calling OS thread, delivering an
asynchronous interrupt to a specific thread, and testing or clearing the
pending interrupt flag on the calling thread.

On linux, Interrupt delivers a signal to the target thread via tgkill, which
unblocks most blocking system calls in addition to raising the per-thread
flag.  On other platforms only the flag is raised, which degrades to
cooperative interruption: blocked code is not woken, but code that polls
Interrupted still observes the request.

Handles are only meaningful while the owning goroutine is locked to its OS
thread with runtime.LockOSThread.  Obtaining a Handle from an unlocked
goroutine is a programming error, since the goroutine may migrate and the
interrupt would land on an unrelated thread.
*/
package thread
