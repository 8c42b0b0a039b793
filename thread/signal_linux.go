// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package thread

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// interruptSignal is the signal used to unblock a thread stuck in a blocking
// system call.  SIGUSR1's default disposition would terminate the process,
// so a handler is routed through the runtime before the first delivery.
const interruptSignal = unix.SIGUSR1

var installHandler sync.Once

func currentID() int {
	return unix.Gettid()
}

// notify sends interruptSignal to the given thread of this process.  The
// runtime's signal handler is installed once, on first use; deliveries are
// otherwise discarded, their only purpose being the EINTR wakeup.
func notify(tid int) error {
	installHandler.Do(func() {
		signal.Notify(make(chan os.Signal, 1), interruptSignal)
	})

	return unix.Tgkill(unix.Getpid(), tid, interruptSignal)
}
