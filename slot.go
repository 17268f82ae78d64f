// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"sync/atomic"
	"unsafe"
)

// slotUsed is the single MSB that marks a descriptor slot occupied.
const slotUsed = uint32(1) << 31

// slotPayloadMask masks the 31 payload bits of a descriptor word.
const slotPayloadMask = ^slotUsed

// ring is a fixed-size power-of-two array of 32-bit descriptor slots
// bound directly onto caller-owned memory: count*4 bytes starting at
// base. No head/tail counters live here — occupancy is entirely
// encoded by each slot's used bit, so the ring itself needs no state
// beyond the base address and the wrap mask.
//
// A slot's word is addressed with sync/atomic's pointer-style API
// rather than code.hybscloud.com/atomix's generic wrapper types,
// because the word's address is picked by the caller (it lives inside
// an externally-owned []byte, potentially real shared memory) instead
// of being owned by this struct — exactly the shape atomix's Uint32
// cannot represent. See DESIGN.md for the full rationale.
type ring struct {
	base  unsafe.Pointer // *uint32 of slot 0
	count uint32
	mask  uint32
}

func newRing(region []byte, count uint32) ring {
	return ring{
		base:  unsafe.Pointer(&region[0]),
		count: count,
		mask:  count - 1,
	}
}

func (r *ring) wordAt(i uint32) *atomic.Uint32 {
	return (*atomic.Uint32)(unsafe.Add(r.base, uintptr(i)*4))
}

// clear zeroes every slot (used at region creation only).
func (r *ring) clear() {
	for i := uint32(0); i < r.count; i++ {
		r.wordAt(i).Store(0)
	}
}

// next returns (i+1) mod count via the power-of-two mask.
func (r *ring) next(i uint32) uint32 {
	return (i + 1) & r.mask
}

func (r *ring) isUsed(i uint32) bool {
	return r.wordAt(i).Load()&slotUsed != 0
}

// get returns (payload, true) if the slot is used, else (0, false).
// The acquire load is what lets the caller safely observe the payload
// a concurrent writer published via put: word, then used bit.
func (r *ring) get(i uint32) (uint32, bool) {
	w := r.wordAt(i).Load()
	if w&slotUsed == 0 {
		return 0, false
	}
	return w & slotPayloadMask, true
}

// put writes payload with the used bit set, in one atomic store. The
// store has release semantics: any writes the caller made to the data
// area this descriptor references must be visible to the reader once
// it observes used=1.
func (r *ring) put(i uint32, payload uint32) {
	r.wordAt(i).Store(payload | slotUsed)
}

// clearSlot zeroes a slot, releasing it back to the writer. The store
// has release semantics so the writer, once it observes used=0, knows
// the reader is done with the referenced bytes.
func (r *ring) clearSlot(i uint32) {
	r.wordAt(i).Store(0)
}
