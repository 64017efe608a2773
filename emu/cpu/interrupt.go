/*
   i7000  - Interrupt and trap logic

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

// C7 interrupt and trap logic: the save-area layout and vector/restore
// sequence of spec.md 4.7, generalized from the teacher's
// cpu_system.go save/restore-PSW pattern.
package cpu

import "github.com/rcornwell/i7000/emu/accum"

// saveAreaBase is the window-store offset of the CPU checkpoint area
// (spec.md 4.7).
const saveAreaBase = 0x3E0

// channelSaveSlot returns the window-store offset of the save slot for
// an interrupting channel: channel 20 vectors through 0x200, channel
// 40 through 0x400, each subsequent channel at that base plus 32-byte
// strides, per spec.md 4.3 step 2.
func channelSaveSlot(channel int) uint16 {
	base := uint16(0x200)
	if channel >= 40 {
		base = 0x400
		channel -= 40
	} else {
		channel -= 20
	}
	return base + uint16(channel)*32
}

func packBCD4(v uint32) [4]uint8 {
	var out [4]uint8
	for i := 0; i < 4; i++ {
		out[i] = uint8(v % 10)
		v /= 10
	}
	return out
}

func unpackBCD4(b [4]uint8) uint32 {
	return uint32(b[0]) + uint32(b[1])*10 + uint32(b[2])*100 + uint32(b[3])*1000
}

// packFlagByte implements the save area's flag encoding (spec.md 4.7):
// "040 | (bits + 8) & 027" per byte. The (group+8)&027 step folds the
// group's top bit (value 8) up into bit 4 of the byte rather than
// dropping it, so the byte values actually used are 040..047 and
// 060..067, never 050..057.
func packFlagByte(group uint8) uint8 {
	return 0o40 | ((group + 8) & 0o27)
}

func unpackFlagByte(b uint8) uint8 {
	return (b & 0x7) | ((b >> 4 & 1) << 3)
}

// packSPC packs the 11-bit spc pointer as four BCD digits:
// units(3 bits)/tens(2 bits)/hundreds(3 bits)/thousands(3 bits), per
// spec.md 4.7.
func packSPC(spc uint16) [4]uint8 {
	return [4]uint8{
		uint8(spc & 0x7),
		uint8((spc >> 3) & 0x3),
		uint8((spc >> 5) & 0x7),
		uint8((spc >> 8) & 0x7),
	}
}

func unpackSPC(b [4]uint8) uint16 {
	return uint16(b[0]) | uint16(b[1])<<3 | uint16(b[2])<<5 | uint16(b[3])<<8
}

// saveState writes the CPU checkpoint into the save area at offset,
// per spec.md 4.7's byte layout.
func (c *CPU) saveState(offset uint16) {
	ic := packBCD4(c.Regs.IC)
	for i, d := range ic {
		accum.WriteChar(offset+uint16(i), d)
	}
	for i := 0; i < 4; i++ {
		group := uint8((c.Regs.Flags >> (4 * i)) & 0xf)
		accum.WriteChar(offset+4+uint16(i), packFlagByte(group))
	}
	spc := packSPC(c.Regs.SPC)
	for i, d := range spc {
		accum.WriteChar(offset+8+uint16(i), d)
	}
	mac2 := packBCD4(c.Regs.MAC2)
	for i, d := range mac2 {
		accum.WriteChar(offset+12+uint16(i), d)
	}
	for i := 0; i < 4; i++ {
		nibble := uint8((c.Regs.SelReg >> (4 * i)) & 0xf)
		accum.WriteChar(offset+16+uint16(i), nibble)
	}
}

// restoreState is the inverse of saveState.
func (c *CPU) restoreState(offset uint16) {
	var ic [4]uint8
	for i := range ic {
		ic[i] = accum.ReadChar(offset + uint16(i))
	}
	c.Regs.IC = unpackBCD4(ic)

	var flags uint16
	for i := 0; i < 4; i++ {
		b := accum.ReadChar(offset + 4 + uint16(i))
		flags |= uint16(unpackFlagByte(b)) << (4 * i)
	}
	c.Regs.Flags = flags

	var spc [4]uint8
	for i := range spc {
		spc[i] = accum.ReadChar(offset + 8 + uint16(i))
	}
	c.Regs.SPC = unpackSPC(spc)

	var mac2 [4]uint8
	for i := range mac2 {
		mac2[i] = accum.ReadChar(offset + 12 + uint16(i))
	}
	c.Regs.MAC2 = unpackBCD4(mac2)

	var selreg uint16
	for i := 0; i < 4; i++ {
		selreg |= uint16(accum.ReadChar(offset+16+uint16(i))&0xf) << (4 * i)
	}
	c.Regs.SelReg = selreg
}

// enterTrap vectors into the interrupt handler for the given channel,
// per spec.md 4.3 step 2: the full CPU state is checkpointed at
// saveAreaBase, intprog is set, spc is reset to 0x200, and IC is
// reloaded from the interrupting channel's save slot.
func (c *CPU) enterTrap(channel int) {
	c.saveState(saveAreaBase)
	c.Regs.IntProg = true
	c.Regs.SPC = 0x200
	slot := channelSaveSlot(channel)
	var ic [4]uint8
	for i := range ic {
		ic[i] = accum.ReadChar(slot + uint16(i))
	}
	c.Regs.IC = unpackBCD4(ic)
}

// leaveInterrupt implements LIP: the full save area (spc, MAC2, selreg
// included) is reloaded and intprog is cleared.
func (c *CPU) leaveInterrupt() {
	c.restoreState(saveAreaBase)
	c.Regs.IntProg = false
}
