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
	"testing"

	"github.com/rcornwell/i7000/emu/accum"
	"github.com/rcornwell/i7000/emu/digit"
	"github.com/rcornwell/i7000/emu/memory"
)

func TestCompareEqual(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 5, 3})

	memory.WriteChar(600, digit.SignPlus<<4|5)
	memory.WriteChar(601, 3)
	memory.WriteChar(602, digit.StorageMark)

	step, trap := c.compare(p, 600, false)
	if trap != 0 {
		t.Fatalf("compare got trap: %#x", trap)
	}
	if step.result != CompareEqual {
		t.Errorf("result got: %v expected: CompareEqual", step.result)
	}
	if c.Regs.TestFlag(FlagHighCmp | FlagLowCmp) {
		t.Error("expected neither HighCmp nor LowCmp latched on an equal compare")
	}
}

func TestCompareAccumulatorHigh(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 9})

	memory.WriteChar(610, digit.SignPlus<<4|5)
	memory.WriteChar(611, digit.StorageMark)

	step, trap := c.compare(p, 610, false)
	if trap != 0 {
		t.Fatalf("compare got trap: %#x", trap)
	}
	// For digits of equal zone the latch reports memory against the
	// accumulator (the convention TLH's stop-on-high relies on): memory 5
	// is below accumulator 9, so the result is LOW.
	if step.result != CompareLow {
		t.Errorf("result got: %v expected: CompareLow", step.result)
	}
	if !c.Regs.TestFlag(FlagLowCmp) {
		t.Error("expected FlagLowCmp latched")
	}
}

func TestCompareBackwardsWithBkCmp(t *testing.T) {
	c := newTestCPU()
	c.Regs.BkCmp = true
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 1, 2})

	// With BkCmp set, the memory walk steps toward lower addresses: the
	// first comparison reads addr 700, the second reads 699.
	memory.WriteChar(700, digit.SignPlus<<4|1)
	memory.WriteChar(699, 2)

	step, trap := c.compare(p, 700, false)
	if trap != 0 {
		t.Fatalf("compare got trap: %#x", trap)
	}
	if step.result != CompareEqual {
		t.Errorf("result got: %v expected: CompareEqual for a matching backwards walk", step.result)
	}
}

func TestCompareTableLookupStopsAtGroupMark(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 1, 2, 3})

	memory.WriteChar(800, digit.SignPlus<<4|1)
	memory.WriteChar(801, digit.GroupMark)

	step, trap := c.compare(p, 800, true)
	if trap != 0 {
		t.Fatalf("compare got trap: %#x", trap)
	}
	if !step.hitMark {
		t.Error("expected hitMark set when the memory side reaches a group mark")
	}
}

func TestTLUSkipsToMatchingEntry(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 2, 3, 1})

	// First table entry ("19") is shorter than the accumulator field and
	// doesn't match; TLU should skip past its record mark to the second
	// entry ("231"), which matches in full.
	memory.WriteChar(900, digit.SignPlus<<4|1)
	memory.WriteChar(901, 9)
	memory.WriteChar(902, digit.RecordMark)
	memory.WriteChar(903, digit.SignPlus<<4|2)
	memory.WriteChar(904, 3)
	memory.WriteChar(905, 1)
	memory.WriteChar(906, digit.GroupMark)

	trap := c.tableLookup(p, 900, false)
	if trap != 0 {
		t.Fatalf("tableLookup got trap: %#x", trap)
	}
	if c.Regs.MAC2 != 903 {
		t.Errorf("MAC2 got: %d expected: 903 (matching entry's address)", c.Regs.MAC2)
	}
}

func TestTLUViaExecuteDispatchesOpcode(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 5})

	memory.WriteChar(910, digit.SignPlus<<4|5)
	memory.WriteChar(911, digit.GroupMark)

	trap := c.execute(Decoded{Opcode: OpTLU, Reg: 0, Addr: 910})
	if trap != 0 {
		t.Fatalf("execute(OpTLU) got trap: %#x", trap)
	}
	if c.Regs.MAC2 != 910 {
		t.Errorf("MAC2 got: %d expected: 910", c.Regs.MAC2)
	}
}

func TestTLHStopsOnHighOrEqual(t *testing.T) {
	c := newTestCPU()
	p := accum.GetStart(c.Regs.SPC, 0)
	accum.WriteString(p, []uint8{digit.SignPlus<<4 | 5})

	// The accumulator (5) compares low against the first entry (3), so
	// TLH skips it; the second entry (9) compares high, so TLH (unlike
	// TLU) stops there instead of continuing to search for an exact
	// match.
	memory.WriteChar(930, digit.SignPlus<<4|3)
	memory.WriteChar(931, digit.RecordMark)
	memory.WriteChar(932, digit.SignPlus<<4|9)
	memory.WriteChar(933, digit.GroupMark)

	trap := c.execute(Decoded{Opcode: OpTLH, Reg: 0, Addr: 930})
	if trap != 0 {
		t.Fatalf("execute(OpTLH) got trap: %#x", trap)
	}
	if c.Regs.MAC2 != 932 {
		t.Errorf("MAC2 got: %d expected: 932 (stopped at the high-or-equal entry)", c.Regs.MAC2)
	}
}
