// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package thread

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurrentLocked(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	assert.NotNil(t, h.flag)
	assert.False(t, h.Pending())
}

func testCurrentConcurrent(t *testing.T) {
	// handles minted on distinct threads must not share flags
	const routineCount = 8

	var (
		mu      sync.Mutex
		handles []Handle
		wg      sync.WaitGroup
	)

	wg.Add(routineCount)
	for i := 0; i < routineCount; i++ {
		go func() {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			h := Current()
			mu.Lock()
			handles = append(handles, h)
			mu.Unlock()
		}()
	}

	wg.Wait()
	require.Len(t, handles, routineCount)
	for _, h := range handles {
		assert.False(t, h.Pending())
	}
}

func TestCurrent(t *testing.T) {
	t.Run("Locked", testCurrentLocked)
	t.Run("Concurrent", testCurrentConcurrent)
}

func testInterruptRaisesFlag(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	defer h.ClearInterrupt()

	require.False(t, h.Pending())
	h.Interrupt()
	assert.True(t, h.Pending())
}

func testInterruptFromAnotherGoroutine(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	defer h.ClearInterrupt()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Interrupt()
	}()

	<-done
	assert.True(t, h.Pending())
}

func testInterruptIdempotent(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	defer h.ClearInterrupt()

	h.Interrupt()
	h.Interrupt()
	assert.True(t, h.Pending())
	assert.True(t, h.ClearInterrupt())
	assert.False(t, h.Pending())
}

func TestInterrupt(t *testing.T) {
	t.Run("RaisesFlag", testInterruptRaisesFlag)
	t.Run("FromAnotherGoroutine", testInterruptFromAnotherGoroutine)
	t.Run("Idempotent", testInterruptIdempotent)
}

// the registry keys handles by gettid on linux and by goroutine id
// elsewhere; either way, repeated Current calls on a locked goroutine must
// observe the same flag

func testCurrentStableID(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	first := Current()
	second := Current()
	assert.Equal(t, first.ID(), second.ID())
	assert.Same(t, first.flag, second.flag)
}

func testInterruptedObservesHandleFlag(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	defer h.ClearInterrupt()

	require.False(t, Interrupted())
	h.Interrupt()
	assert.True(t, Interrupted())
	assert.True(t, h.ClearInterrupt())
	assert.False(t, Interrupted())
}

func testCheckInterrupt(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	defer h.ClearInterrupt()

	require.NoError(t, CheckInterrupt())
	h.Interrupt()
	assert.ErrorIs(t, CheckInterrupt(), ErrInterrupted)
}

func TestRegistry(t *testing.T) {
	t.Run("StableID", testCurrentStableID)
	t.Run("InterruptedObservesHandleFlag", testInterruptedObservesHandleFlag)
	t.Run("CheckInterrupt", testCheckInterrupt)
}

func testClearInterruptAbsorbs(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	h.Interrupt()

	assert.True(t, h.ClearInterrupt())
	assert.False(t, h.Pending())
	assert.False(t, h.ClearInterrupt())
}

func testClearInterruptNothingPending(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := Current()
	assert.False(t, h.ClearInterrupt())
}

func TestClearInterrupt(t *testing.T) {
	t.Run("Absorbs", testClearInterruptAbsorbs)
	t.Run("NothingPending", testClearInterruptNothingPending)
}
