/*
   i7000  - Compare engine

   Copyright 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.

*/

package cpu

import (
	"github.com/rcornwell/i7000/emu/accum"
	"github.com/rcornwell/i7000/emu/digit"
	"github.com/rcornwell/i7000/emu/memory"
)

// CompareResult is the latch value of a Compare (spec.md 4.6).
type CompareResult int

const (
	CompareEqual CompareResult = iota
	CompareLow
	CompareHigh
)

// compareStep is one digit-pair comparison outcome while walking in
// table-lookup mode, letting the caller advance past a group/record
// mark rather than treating it as ordinary data.
type compareStep struct {
	result      CompareResult
	hitMark     bool   // memory side hit a group-mark or record-mark (TLU/TLH only)
	markAddr    uint32 // address of the mark character, valid when hitMark
	markIsGroup bool   // the mark was a group-mark (end of table) rather than a record-mark
	endAddr     uint32 // memory address immediately following the last compared character
}

// compare walks the accumulator at p and the memory operand at addr in
// parallel, per spec.md 4.6. tableLookup enables the group-mark/
// record-mark early return used by TLU/TLH. The memory walk direction
// is forward unless bkcmp is set, in which case it runs toward lower
// addresses (the ECB one-shot latch, spec.md 3).
func (c *CPU) compare(p uint16, addr uint32, tableLookup bool) (compareStep, uint16) {
	result := CompareEqual
	step := int32(1)
	if c.Regs.BkCmp {
		step = -1
	}

	for i := 0; i < accum.Size; i++ {
		accCh := accum.ReadChar(p)
		if accCh == digit.StorageMark {
			c.latchCompare(result)
			return compareStep{result: result, endAddr: addr}, 0
		}
		memCh, flags := memory.ReadChar(addr, FlagMCheck)
		if flags != 0 {
			return compareStep{result: result}, flags
		}
		if tableLookup && (memCh == digit.GroupMark || memCh == digit.RecordMark) {
			return compareStep{result: result, hitMark: true, markAddr: addr, markIsGroup: memCh == digit.GroupMark}, 0
		}

		accBlank := accCh == digit.Blank
		memBlank := memCh == digit.Blank
		switch {
		case accBlank && !memBlank:
			result = CompareHigh
		case !accBlank && memBlank:
			result = CompareLow
		case accBlank && memBlank:
			// equal, no change
		default:
			accZone := digit.ZoneOf(accCh)
			memZone := digit.ZoneOf(memCh)
			if accZone != memZone {
				if accZone < memZone {
					result = CompareLow
				} else {
					result = CompareHigh
				}
			} else {
				accVal := digit.BCDToBin[digit.ValueOf(accCh)]
				memVal := digit.BCDToBin[digit.ValueOf(memCh)]
				if accVal != memVal {
					if memVal > accVal {
						result = CompareHigh
					} else {
						result = CompareLow
					}
				}
			}
		}

		p = accum.NextAddr(p)
		addr = memory.Wrap(uint32(int64(addr) + int64(step)))
	}

	c.latchCompare(result)
	return compareStep{result: result, endAddr: addr}, 0
}

// latchCompare updates the CPU's HIGH/LOW compare flags (spec.md 4.6)
// for a completed compare.
func (c *CPU) latchCompare(result CompareResult) {
	c.Regs.ClearFlag(FlagHighCmp | FlagLowCmp)
	switch result {
	case CompareHigh:
		c.Regs.SetFlag(FlagHighCmp)
	case CompareLow:
		c.Regs.SetFlag(FlagLowCmp)
	}
}

// tableLookup implements TLU ("table lookup equal") and TLH ("table
// lookup equal or high"), spec.md 4.3/4.6: loop compare against
// successive table entries, skipping past each entry's record-mark
// terminator, until a match is found or a group-mark ends the table.
// The match address (or the group-mark's address if nothing matched)
// lands in MAC2 for a following move verb to pick up, matching the
// original do_compare's TLU cases leaving MA in MAC2.
func (c *CPU) tableLookup(p uint16, addr uint32, orHigher bool) uint16 {
	for {
		entryAddr := addr
		step, trap := c.compare(p, addr, true)
		if trap != 0 {
			return trap
		}
		found := step.result == CompareEqual || (orHigher && step.result == CompareHigh)
		if found {
			c.Regs.MAC2 = entryAddr
			return 0
		}

		markAddr, markIsGroup := step.markAddr, step.markIsGroup
		if !step.hitMark {
			// The entry was exactly as wide as the accumulator field, so
			// compare ran off the end without ever reading the
			// separator; scan forward from where it stopped to find it,
			// mirroring the original's post-compare cleanup scan.
			scanAddr := step.endAddr
			for {
				ch, flags := memory.ReadChar(scanAddr, FlagMCheck)
				if flags != 0 {
					return flags
				}
				if ch == digit.GroupMark || ch == digit.RecordMark {
					markAddr, markIsGroup = scanAddr, ch == digit.GroupMark
					break
				}
				scanAddr = memory.Wrap(scanAddr + 1)
			}
		}

		c.Regs.MAC2 = markAddr
		if markIsGroup {
			return 0
		}
		addr = memory.Wrap(markAddr + 1)
	}
}
