// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package interruptible

// CancelledError is returned by Run when the blocking operation was torn
// down by a native interrupt triggered from the ambient context's
// cancellation.  Every flavor of native interruption is normalized to this
// one error kind.
//
// Cause carries the context's cancellation cause, so
// errors.Is(err, context.Canceled) and errors.Is(err, context.DeadlineExceeded)
// behave as expected.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string {
	if e.Cause != nil {
		return "interruptible: operation cancelled: " + e.Cause.Error()
	}

	return "interruptible: operation cancelled"
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}
