// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

import (
	"context"
	"sync"
)

// token is the unsubscription handle for a single cancellation
// subscription.  Dispose is idempotent and never blocks.  A token with a nil
// done channel is inert, which is what subscribeOnCancelling returns when
// the handler was invoked immediately and no watcher goroutine exists.
type token struct {
	once sync.Once
	done chan struct{}
}

func (t *token) Dispose() {
	if t.done == nil {
		return
	}

	t.once.Do(func() {
		close(t.done)
	})
}

// subscribeOnCancelling registers handler to run at most once when ctx
// transitions toward cancellation.  When invokeImmediately is set and ctx is
// already done, handler runs synchronously on the calling thread before the
// token is returned; a task that is already cancelling at call time must not
// race its own registration.
//
// The handler may run on an arbitrary goroutine.  A Dispose that returns
// before the context is cancelled guarantees the handler never runs; a
// Dispose racing the cancellation may observe either outcome.  Dispose does
// not wait for a concurrently-running handler.
func subscribeOnCancelling(ctx context.Context, invokeImmediately bool, handler func()) *token {
	if invokeImmediately && ctx.Err() != nil {
		handler()
		return new(token)
	}

	t := &token{done: make(chan struct{})}
	go func() {
		select {
		case <-ctx.Done():
			// both cases may have been ready when this goroutine first ran,
			// in which case the select's choice was arbitrary: a disposal
			// that completed before cancellation must still win
			select {
			case <-t.done:
			default:
				handler()
			}

		case <-t.done:
		}
	}()

	return t
}
