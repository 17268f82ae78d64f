// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// headerSize is the packed, little-endian on-wire header: bd_count
// (u16), datasize (u16), reader_status (u32), writer_status (u32),
// align (u32). Always encoded/decoded explicitly rather than overlaid,
// so the format doesn't depend on host endianness or struct padding.
const headerSize = 2 + 2 + 4 + 4 + 4

const (
	hdrOffBDCount   = 0
	hdrOffDataSize  = 2
	hdrOffReaderSt  = 4
	hdrOffWriterSt  = 8
	hdrOffAlign     = 12
)

// Region is a FIFO's shared-memory layout bound onto a caller-owned
// buffer: header + descriptor ring + data area. It is the shared
// substrate a paired Reader and Writer both point into; Region itself
// holds no cursors and is safe to read from either side.
type Region struct {
	buf     []byte
	hdr     unsafe.Pointer // &buf[0], header base
	ring    ring
	dataOff int // byte offset of data area within buf
	dataLen int
	align   uint32
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// Create zero-initializes a fresh region inside buf: clears the
// descriptor ring and writes the header. buf must be at least as
// large as the layout this builder computes; the data area is sized
// from whatever remains after header and ring, rounded down to a
// multiple of align.
func (b *RegionBuilder) Create(buf []byte) (*Region, error) {
	if b.align&(b.align-1) != 0 {
		return nil, ErrMisconfigured
	}
	h := alignUp(headerSize, b.align)
	r := alignUp(b.bdCount*4, b.align)
	if len(buf) < h+r+b.align {
		return nil, ErrMisconfigured
	}
	dataLen := (len(buf) - h - r) &^ (b.align - 1)
	if dataLen <= 0 || dataLen > 1<<16-1 {
		return nil, ErrMisconfigured
	}

	region := &Region{
		buf:     buf,
		hdr:     unsafe.Pointer(&buf[0]),
		ring:    newRing(buf[h:h+r], uint32(b.bdCount)),
		dataOff: h + r,
		dataLen: dataLen,
		align:   uint32(b.align),
	}
	region.ring.clear()
	region.putHeader(uint16(b.bdCount), uint16(dataLen), uint32(b.align))
	region.statusWord(false).Store(0)
	region.statusWord(true).Store(0)
	return region, nil
}

// Connect binds onto an already-initialized region: it reads bd_count
// and align back out of the header and recomputes H and R from those,
// rather than trusting the builder's own configuration, since the
// connecting side may not be the side that created the region.
func (b *RegionBuilder) Connect(buf []byte) (*Region, error) {
	if len(buf) < headerSize {
		return nil, ErrMisconfigured
	}
	hdr := unsafe.Pointer(&buf[0])
	bdCount := binary.LittleEndian.Uint16(buf[hdrOffBDCount:])
	dataSize := binary.LittleEndian.Uint16(buf[hdrOffDataSize:])
	align := binary.LittleEndian.Uint32(buf[hdrOffAlign:])
	if bdCount < 2 || align < MinAlign || align&(align-1) != 0 || bdCount&(bdCount-1) != 0 {
		return nil, ErrMisconfigured
	}

	h := alignUp(headerSize, int(align))
	r := alignUp(int(bdCount)*4, int(align))
	if len(buf) < h+r+int(dataSize) {
		return nil, ErrMisconfigured
	}

	return &Region{
		buf:     buf,
		hdr:     hdr,
		ring:    newRing(buf[h:h+r], uint32(bdCount)),
		dataOff: h + r,
		dataLen: int(dataSize),
		align:   align,
	}, nil
}

func (rg *Region) putHeader(bdCount, dataSize uint16, align uint32) {
	binary.LittleEndian.PutUint16(rg.buf[hdrOffBDCount:], bdCount)
	binary.LittleEndian.PutUint16(rg.buf[hdrOffDataSize:], dataSize)
	binary.LittleEndian.PutUint32(rg.buf[hdrOffAlign:], align)
}

// statusWord returns the atomic view of reader_status (writer=false)
// or writer_status (writer=true).
func (rg *Region) statusWord(writer bool) *atomic.Uint32 {
	off := hdrOffReaderSt
	if writer {
		off = hdrOffWriterSt
	}
	return (*atomic.Uint32)(unsafe.Add(rg.hdr, uintptr(off)))
}

// totalSize returns the region's whole buffer length (header + ring +
// data area), i.e. spec.md's FIFO_SIZE. Distinct from dataLen, which
// is the data area alone.
func (rg *Region) totalSize() int {
	return len(rg.buf)
}

// dataBase returns the address of byte 0 of the data area.
func (rg *Region) dataBase() unsafe.Pointer {
	return unsafe.Add(rg.hdr, uintptr(rg.dataOff))
}

// bytesAt returns the []byte view of the data area starting at
// byte-offset off, length n. Used to hand callers a memcpy-able span.
func (rg *Region) bytesAt(off, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(rg.dataBase(), uintptr(off))), n)
}

// offsetOf recovers ptr's byte offset within the data area, failing if
// ptr doesn't point inside it at all (a programmer error: the caller
// passed a foreign slice to Commit).
func (rg *Region) offsetOf(ptr []byte) (int, error) {
	if len(ptr) == 0 {
		return 0, ErrInvalidPointer
	}
	base := uintptr(rg.dataBase())
	p := uintptr(unsafe.Pointer(&ptr[0]))
	if p < base {
		return 0, ErrInvalidPointer
	}
	off := int(p - base)
	if off >= rg.dataLen {
		return 0, ErrInvalidPointer
	}
	return off, nil
}
