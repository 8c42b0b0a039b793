// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package thread

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// Platforms without a per-thread kill primitive fall back to flag-only
// interruption: Handles still carry a pending flag, but blocked system
// calls are not woken.  Since there is no portable thread id, the fallback
// keys the registry by goroutine id instead; under the package's
// LockOSThread precondition the goroutine and the thread are the same
// actor, so Interrupted and CheckInterrupt observe the flag raised on the
// Handle armed for that goroutine.

// currentID parses the goroutine id from the first line of a stack trace,
// which has the fixed form "goroutine N [status]:".
func currentID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]

	fields := bytes.Fields(buf)
	if len(fields) < 2 {
		panic(fmt.Sprintf("thread: malformed stack header: %q", buf))
	}

	id, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		panic(fmt.Sprintf("thread: malformed goroutine id: %q", fields[1]))
	}

	return id
}

func notify(int) error {
	return nil
}
