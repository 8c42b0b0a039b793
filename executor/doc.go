// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package executor supplies a pool of goroutines permanently locked to their
OS threads, for relocating blocking work away from a caller's thread.  It is
the standard execution context handed to interruptible.WithExecutor: because
each worker owns its thread for life, a native interrupt aimed at a task's
thread can never land on unrelated work that migrated there.
*/
package executor
