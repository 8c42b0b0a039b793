// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubscribeImmediateInvocation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	tok := subscribeOnCancelling(ctx, true, func() {
		calls.Add(1)
	})

	// the handler must have run synchronously, before the token was returned
	require.Equal(t, int32(1), calls.Load())

	assert.NotPanics(t, func() {
		tok.Dispose()
		tok.Dispose()
	})
}

func testSubscribeImmediateDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	tok := subscribeOnCancelling(ctx, false, func() {
		calls.Add(1)
	})

	defer tok.Dispose()

	// with invokeImmediately unset, delivery is asynchronous even for an
	// already-done context
	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func testSubscribeFiresOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{})
	tok := subscribeOnCancelling(ctx, true, func() {
		close(fired)
	})

	defer tok.Dispose()

	select {
	case <-fired:
		require.FailNow(t, "handler ran before cancellation")
	case <-time.After(50 * time.Millisecond):
		// expected
	}

	cancel()

	select {
	case <-fired:
		// passing
	case <-time.After(time.Second):
		require.FailNow(t, "handler did not run on cancellation")
	}
}

func testSubscribeDisposeUnregisters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	tok := subscribeOnCancelling(ctx, true, func() {
		calls.Add(1)
	})

	tok.Dispose()
	cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "handler ran after disposal")
}

func testSubscribeDisposeBeforeCancel(t *testing.T) {
	// a watcher that has not yet parked in its select sees both cases ready
	// once the context is cancelled; a disposal that completed first must
	// still suppress the handler, on every schedule
	const iterations = 2000

	var calls atomic.Int32
	for i := 0; i < iterations; i++ {
		ctx, cancel := context.WithCancel(context.Background())

		tok := subscribeOnCancelling(ctx, true, func() {
			calls.Add(1)
		})

		tok.Dispose()
		cancel()
	}

	// give any straggling watcher goroutines time to make the wrong choice
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "handler ran after Dispose returned")
}

func testSubscribeDisposeIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tok := subscribeOnCancelling(ctx, true, func() {})

	assert.NotPanics(t, func() {
		tok.Dispose()
		tok.Dispose()
		tok.Dispose()
	})
}

func TestSubscribeOnCancelling(t *testing.T) {
	t.Run("ImmediateInvocation", testSubscribeImmediateInvocation)
	t.Run("ImmediateDisabled", testSubscribeImmediateDisabled)
	t.Run("FiresOnCancel", testSubscribeFiresOnCancel)
	t.Run("DisposeUnregisters", testSubscribeDisposeUnregisters)
	t.Run("DisposeBeforeCancel", testSubscribeDisposeBeforeCancel)
	t.Run("DisposeIdempotent", testSubscribeDisposeIdempotent)
}
