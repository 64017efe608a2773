package cpu

/*
   i7000  - Address decoder

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

import (
	"testing"

	"github.com/rcornwell/i7000/emu/memory"
)

func writeInstr(ic uint32, opcode, lowAddr, midAddrRegLo, highAddrRegHi, highZoneAddr uint8) {
	memory.WriteChar(ic, opcode)
	memory.WriteChar(ic-1, lowAddr)
	memory.WriteChar(ic-2, midAddrRegLo)
	memory.WriteChar(ic-3, highAddrRegHi)
	memory.WriteChar(ic-4, highZoneAddr)
}

func TestDecodeRequiresFiveCharBoundary(t *testing.T) {
	memory.SetSize(10_000)
	regs := &Registers{Model: Model10K}
	_, trap := Decode(regs, 100)
	if trap != FlagInst {
		t.Errorf("Decode on non-boundary IC got trap: %#x expected FlagInst", trap)
	}
}

func TestDecode10KPlainAddress(t *testing.T) {
	memory.SetSize(10_000)
	regs := &Registers{Model: Model10K}
	// Opcode 5, address 1234, no zone, reg field 0.
	writeInstr(104, 5, 4, 3, 2, 1)
	d, trap := Decode(regs, 104)
	if trap != 0 {
		t.Fatalf("Decode got trap: %#x", trap)
	}
	if d.Opcode != 5 {
		t.Errorf("Opcode got: %d expected: 5", d.Opcode)
	}
	if d.Addr != 1234 {
		t.Errorf("Addr got: %d expected: 1234", d.Addr)
	}
	if d.Reg != 0 {
		t.Errorf("Reg got: %d expected: 0", d.Reg)
	}
}

func TestDecode20KBankZone(t *testing.T) {
	memory.SetSize(40_000)
	regs := &Registers{Model: Model20K}
	// Low zone bits (on the units digit, IC-1) select the 20,000-char bank.
	writeInstr(204, 5, 0x10|4, 3, 2, 1)
	d, trap := Decode(regs, 204)
	if trap != 0 {
		t.Fatalf("Decode got trap: %#x", trap)
	}
	if d.Addr != 20_000+1234 {
		t.Errorf("Addr got: %d expected: %d", d.Addr, 20_000+1234)
	}
}

func TestDecodeRejectsIllegalDigit(t *testing.T) {
	memory.SetSize(10_000)
	regs := &Registers{Model: Model10K}
	writeInstr(304, 5, 0x0b, 3, 2, 1)
	_, trap := Decode(regs, 304)
	if trap != FlagInst {
		t.Errorf("Decode on illegal digit got trap: %#x expected FlagInst", trap)
	}
}
