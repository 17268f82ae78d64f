// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import "unsafe"

// RegionBuilder configures the layout of a FIFO region before it is
// bound onto a caller-owned buffer.
//
// Example:
//
//	rb := shmpipe.NewRegion(128, 16)
//	region, err := rb.Create(buf)
type RegionBuilder struct {
	bdCount int
	align   int
}

// NewRegion starts a region layout with the given descriptor count and
// alignment quantum. bdCount rounds up to the next power of 2, floored
// at 2 (the descriptor ring's wrap arithmetic depends on it); align
// rounds up to MinAlign. Connect ignores both fields and re-derives
// the real layout from the region's own header, so a builder destined
// only for Connect can pass 0, 0.
func NewRegion(bdCount, align int) *RegionBuilder {
	if align < MinAlign {
		align = MinAlign
	}
	return &RegionBuilder{
		bdCount: roundToPow2(bdCount),
		align:   align,
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing between a
// private cursor and its neighbors in a Writer/Reader/pool struct.
type pad [64]byte
