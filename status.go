// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmpipe

// statusWaiting is bit0 of reader_status / writer_status: "this side
// is parked awaiting a wakeup."
const statusWaiting = uint32(1)

// setWaiting marks a status word parked or running. This is a
// single-writer word (only the owning side ever calls this), so a
// CAS retry loop is purely for atomicity against concurrent readers
// of the same word, not for contention.
func setWaiting(rg *Region, writer bool, waiting bool) {
	w := rg.statusWord(writer)
	for {
		old := w.Load()
		var next uint32
		if waiting {
			next = old | statusWaiting
		} else {
			next = old &^ statusWaiting
		}
		if old == next || w.CompareAndSwap(old, next) {
			return
		}
	}
}

// isWaiting reports whether a status word's WAITING bit is set.
func isWaiting(rg *Region, writer bool) bool {
	return rg.statusWord(writer).Load()&statusWaiting != 0
}
