// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the pool's free list is already full (no record is out).
// For Dequeue: the pool is exhausted (every record is in flight).
//
// ErrWouldBlock is a control flow signal, not a failure. The caller
// should retry with backoff rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrOversizeRecord is returned by Commit when size exceeds
// MaxRecordSize.
var ErrOversizeRecord = errors.New("shmpipe: record exceeds max size")

// ErrInvalidPointer is returned by Commit when ptr does not reference
// a span inside the region's data area.
var ErrInvalidPointer = errors.New("shmpipe: pointer outside data area")

// ErrMisconfigured is returned by Create/Connect when align is not a
// power of two ≥ MinAlign, bd_count is not a power of two, or the
// supplied buffer is too small for the computed layout. Create also
// returns it when the data area would exceed the header's 16-bit
// datasize field (65535 bytes).
var ErrMisconfigured = errors.New("shmpipe: misconfigured region")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
