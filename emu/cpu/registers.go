/*
   i7000  - CPU register file

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

// Model identifies one of the four supported machine families (spec.md 6).
type Model int

const (
	Model10K Model = iota
	Model20K
	Model40K
	Model80K
	Model160K
)

// Trap-class flag bits (spec.md 3, 7). Each has a matching bit in
// stopFlags that decides halt-vs-trap per flag per §4.7.
const (
	FlagASign    uint16 = 1 << iota // A-accumulator negative.
	FlagBSign                       // B-accumulator negative (10K only).
	FlagAZero                       // A-accumulator is zero.
	FlagBZero                       // B-accumulator is zero (10K only).
	FlagInst                        // Instruction flag: bad opcode/alignment/ASU/indirect.
	FlagMCheck                      // Machine-check: invalid or uninitialized memory read.
	FlagIOCheck                     // I/O check: NODEV/IOERR or wrong-kind channel.
	FlagRecCheck                    // Record check: channel attention mid-transfer.
	FlagOverflow                    // BCD carry-out, quotient overflow, shift-left loss.
	FlagSignErr                     // Illegal sign nibble on a memory operand.
	FlagEightMode                   // 160K eight-mode feature enabled.
	FlagHighCmp                     // Compare latched HIGH.
	FlagLowCmp                      // Compare latched LOW.
)

// TrapFlags is the subset of Flags that can vector to the interrupt
// handler instead of (or in addition to) halting the simulator.
const TrapFlags = FlagInst | FlagMCheck | FlagIOCheck | FlagRecCheck | FlagOverflow | FlagSignErr

// Registers is the CPU state named in spec.md 3's register-file table.
// It is held as a plain struct rather than package-level globals (unlike
// emu/memory and emu/accum) because spec.md 9's Open Questions and
// REDESIGN FLAGS expect CPU state to be context-carrying once the
// interrupt handler needs to swap it wholesale on vector entry.
type Registers struct {
	Model Model

	IC uint32 // Points at the units digit of the next instruction.

	Flags      uint16 // Trap-class and comparison flag bits, above.
	StopFlags  uint16 // Subset of Flags that halts rather than traps.
	SW         uint8  // Sense-switch snapshot (6 bits).
	SL         uint8  // Sense-light snapshot (6 bits).

	SPC  uint16 // A-accumulator current start pointer.
	SPCB uint16 // B-accumulator current start pointer (10K only).

	SelReg  uint16 // Most recent device selection.
	SelReg2 uint16 // Read-ahead device selection.

	IndFlag bool // One-shot indirect enable.
	IntMode bool // Interrupts enabled.
	IntProg bool // Currently executing in an interrupt handler.
	BkCmp   bool // Next Compare runs toward lower addresses.
	NonStop bool // Program mode (true) vs. automatic mode (false).

	MAC  uint32 // Primary operand effective address.
	MAC2 uint32 // Secondary operand effective address.

	EmuMid       bool // EMU_MID: enables 40K on the 20K-class model.
	EmuSeriesIII bool // EMU_SERIES_III: enables Series-III features on the top-class model.
}

// SetFlag ORs bits into the flag word.
func (r *Registers) SetFlag(bits uint16) { r.Flags |= bits }

// ClearFlag clears bits in the flag word.
func (r *Registers) ClearFlag(bits uint16) { r.Flags &^= bits }

// TestFlag reports whether any of bits is set.
func (r *Registers) TestFlag(bits uint16) bool { return r.Flags&bits != 0 }

// PendingTrap reports whether a trap-class flag is set that is not
// masked by stopFlags, honouring spec.md 4.7/4.3 step 2's gating
// conditions (interrupts enabled, not already in a handler, no
// in-flight indirect or reversed-compare one-shot).
func (r *Registers) PendingTrap() bool {
	if !r.IntMode || r.IntProg || r.IndFlag || r.BkCmp {
		return false
	}
	return r.Flags&TrapFlags&^r.StopFlags != 0
}

// ShouldHalt reports whether the currently-set trap flags should halt
// the simulator under automatic mode (non-stop cleared): a flag whose
// stopFlags bit is set halts rather than traps.
func (r *Registers) ShouldHalt() bool {
	if r.NonStop {
		return false
	}
	return r.Flags&TrapFlags&r.StopFlags != 0
}
