// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// Deployment defaults (§6). Callers are free to size regions
// differently; NewRegion does not substitute these for zero arguments.
const (
	// DefaultFIFOSize is the conventional total byte size of one region.
	DefaultFIFOSize = 64 * 1024
	// DefaultBDCount is the conventional descriptor ring length.
	DefaultBDCount = 128
	// DefaultAlign is the conventional alignment quantum.
	DefaultAlign = 16

	// MinAlign is the floor alignment quantum: the ring right-shifts
	// offsets by 2, so anything coarser than 4 would lose precision.
	MinAlign = 4
)

// Descriptor bit layout (§6): 16-bit offset/4, 12-bit size, 3 spare,
// 1 used bit (owned by the ring, not the descriptor payload).
const (
	bdOffsetBits = 16
	bdSizeBits   = 12

	// MaxRecordSize is the largest single record commit accepts.
	MaxRecordSize = (1 << bdSizeBits) - 1
	// MaxDataOffset is the largest byte offset (in units of 4) a
	// descriptor can address: up to 256KiB - 4 of data region.
	MaxDataOffset = ((1 << bdOffsetBits) - 1) << 2
)

// Pipe batching (§4.5, §9 urgency).
const (
	// DefaultMaxBatch caps a single transfer span under normal load.
	DefaultMaxBatch = DefaultFIFOSize / 2
	// DefaultURGENTCap caps a transfer span when the sink is starved.
	DefaultURGENTCap = 2 * 1024
)
