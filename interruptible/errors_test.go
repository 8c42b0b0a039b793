// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCancelledErrorWithCause(t *testing.T) {
	err := &CancelledError{Cause: context.DeadlineExceeded}
	assert.Contains(t, err.Error(), "operation cancelled")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func testCancelledErrorNoCause(t *testing.T) {
	err := new(CancelledError)
	assert.Contains(t, err.Error(), "operation cancelled")
	assert.NoError(t, errors.Unwrap(err))
}

func TestCancelledError(t *testing.T) {
	t.Run("WithCause", testCancelledErrorWithCause)
	t.Run("NoCause", testCancelledErrorNoCause)
}
