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

package cpu

import (
	"github.com/rcornwell/i7000/emu/digit"
	"github.com/rcornwell/i7000/emu/memory"
)

// Decoded is the result of decoding the five-character instruction word
// at IC-4..IC (spec.md 3's "Instruction word", spec.md 4.2).
type Decoded struct {
	Opcode   uint8
	Reg      uint8  // Register-select field, 0..15; 0 is the A accumulator.
	Zone     uint8  // Raw 4-bit model zone, assembled from digits 1 and 4.
	Addr     uint32 // Effective address after model-dependent zone resolution.
	Indirect bool   // One-level indirect was taken (80K zone bit, or IndFlag on the 160K).
}

// Decode fetches and decodes the instruction at ic (which must point at
// the units-digit position) per spec.md 4.2/4.3. trap is non-zero (a
// Flag* bit) when the word is malformed.
func Decode(regs *Registers, ic uint32) (d Decoded, trap uint16) {
	if ic%5 != 4 {
		return d, FlagInst
	}

	var chars [5]uint8
	for i := uint32(0); i < 5; i++ {
		c, flags := memory.ReadChar(ic-i, FlagMCheck)
		if flags != 0 {
			return d, flags
		}
		if !digit.IsLegalValue(c) {
			return d, FlagInst
		}
		chars[i] = c
	}
	// chars[0] = IC (opcode), chars[1] = IC-1 (low addr / low model zone),
	// chars[2] = IC-2 (mid addr / reg low), chars[3] = IC-3 (high addr /
	// reg high), chars[4] = IC-4 (high addr digit / high model zone).
	d.Opcode = chars[0] & 0x3f
	d.Reg = (digit.ZoneOf(chars[3]) << 2) | digit.ZoneOf(chars[2])
	d.Zone = (digit.ZoneOf(chars[4]) << 2) | digit.ZoneOf(chars[1])

	units := uint32(digit.ValueOf(chars[1]))
	tens := uint32(digit.ValueOf(chars[2]))
	hundreds := uint32(digit.ValueOf(chars[3]))
	thousands := uint32(digit.ValueOf(chars[4]))
	addr := thousands*1000 + hundreds*100 + tens*10 + units

	addr, indirect, trap := resolveZone(regs, addr, d.Zone)
	if trap != 0 {
		return d, trap
	}
	d.Indirect = indirect

	if indirect {
		addr, trap = followIndirect(addr)
		if trap != 0 {
			return d, trap
		}
	}

	d.Addr = memory.Wrap(addr)
	return d, 0
}

// resolveZone applies the model's zone interpretation (spec.md 4.2
// table) and returns the extended address plus whether an indirect
// fetch should follow.
func resolveZone(regs *Registers, addr uint32, zone uint8) (extAddr uint32, indirect bool, trap uint16) {
	switch regs.Model {
	case Model10K:
		// Zone must be 0 except the bit selecting the B-accumulator;
		// that bit does not change the address, and execute does not
		// read it (every verb uses the accumulator SPC selects).
		if zone&^0x1 != 0 {
			return 0, false, FlagInst
		}
		return addr, false, 0

	case Model20K, Model40K:
		// Two zone bits select a 20,000-character bank (0/20000/40000/60000);
		// the remaining zone bits are ignored here, and execute does not
		// read them.
		bank := uint32(zone&0x3) * 20_000
		return addr + bank, false, 0

	case Model80K:
		// Four zone bits interleave bank selection (multiples of 20,000
		// up to 160,000) with one bit reserved as the indirect flag.
		indirect = zone&0x8 != 0
		bank := uint32(zone&0x7) * 20_000
		return addr + bank, indirect, 0

	case Model160K:
		// Full zone selects one of sixteen 0..150,000 offsets; no
		// indirect flag here (indirect is the one-shot IndFlag register
		// set by a prior verb instead).
		bank := uint32(zone) * 10_000
		return addr + bank, regs.IndFlag, 0
	}
	return addr, false, FlagInst
}

// followIndirect re-decodes the effective address as another
// five-character cell, per the 80K's one-level indirect rule: the
// target must land on a five-character boundary.
func followIndirect(addr uint32) (uint32, uint16) {
	target := memory.Wrap(addr)
	if target%5 != 4 {
		return 0, FlagInst
	}
	var chars [4]uint8
	for i := uint32(0); i < 4; i++ {
		c, flags := memory.ReadChar(target-i, FlagMCheck)
		if flags != 0 {
			return 0, flags
		}
		if !digit.IsLegalValue(c) {
			return 0, FlagInst
		}
		chars[i] = c
	}
	units := uint32(digit.ValueOf(chars[0]))
	tens := uint32(digit.ValueOf(chars[1]))
	hundreds := uint32(digit.ValueOf(chars[2]))
	thousands := uint32(digit.ValueOf(chars[3]))
	return thousands*1000 + hundreds*100 + tens*10 + units, 0
}
