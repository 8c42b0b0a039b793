// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package interruptible runs blocking, non-cooperative operations under an
ambient context so that cancelling the context promptly tears the operation
down with a native thread interrupt.

The wrapper takes no action at all when the supplied context cannot be
cancelled: the operation is simply invoked inline with zero synchronization.
When the context is cancellable, the operation's thread is registered with a
single-use gate, cancellation is subscribed, and any native interruption
observed during the operation is surfaced as a *CancelledError rather than
whatever raw error the interrupted call produced.

	err := interruptible.Run(ctx, func() error {
		return conn.blockingRead(buffer)
	})

	var cancelled *interruptible.CancelledError
	if errors.As(err, &cancelled) {
		// torn down because ctx was cancelled
	}
*/
package interruptible
