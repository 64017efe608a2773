/*
   i7000  - CPU main instruction fetch and execute

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
	"fmt"
	"log/slog"

	"github.com/rcornwell/i7000/emu/accum"
	"github.com/rcornwell/i7000/emu/device"
	"github.com/rcornwell/i7000/emu/memory"
	"github.com/rcornwell/i7000/emu/syschannel"
	"github.com/rcornwell/i7000/util/logger"
)

// CPU holds the decoded-instruction scratch state (spec.md "stepInfo"
// equivalent from the teacher's cpu.go) plus the register file it
// operates against.
type CPU struct {
	Regs Registers

	// Halted is set by a HALT verb or an automatic-mode trap; Step
	// returns immediately while set.
	Halted     bool
	HaltReason string

	Log *slog.Logger
}

// New builds a CPU for the given model with A-bank geometry installed.
func New(model Model, log *slog.Logger) *CPU {
	c := &CPU{Regs: Registers{Model: model}, Log: log}
	if model == Model10K {
		accum.SetBankSize(accum.BankSize512)
	} else {
		accum.SetBankSize(accum.BankSize256)
	}
	return c
}

// Step executes the seven-step instruction cycle of spec.md 4.3 once.
func (c *CPU) Step() uint16 {
	if c.Halted {
		return 0
	}

	// Step 2: interrupt vectoring takes priority over fetch.
	if c.Regs.PendingTrap() {
		channel := c.pendingChannel()
		c.Log.Debug("interrupt vectoring", logger.CategoryAttr(logger.CategoryIRQ),
			"flags", c.Regs.Flags, "channel", channel)
		c.enterTrap(channel)
		return 0
	}

	d, trap := Decode(&c.Regs, c.Regs.IC)
	if trap != 0 {
		return c.handleTrap(trap)
	}
	c.Log.Debug("fetch", logger.CategoryAttr(logger.CategoryInst),
		"ic", c.Regs.IC, "opcode", d.Opcode, "addr", d.Addr, "reg", d.Reg)

	if alignmentRequired(d.Opcode) && d.Addr%5 != 4 {
		return c.handleTrap(FlagInst)
	}

	c.Regs.MAC = d.Addr
	// IC advances before execute so that a branch verb's target is not
	// moved on by another five characters.
	c.Regs.IC = memory.Wrap(c.Regs.IC + 5)
	trap = c.execute(d)
	if trap != 0 {
		return c.handleTrap(trap)
	}
	return 0
}

// handleTrap applies spec.md 4.7's halt-vs-trap decision for a
// just-raised flag: automatic mode with the flag's stopFlags bit set
// halts; everything else leaves the flag latched for the next Step's
// PendingTrap check (or, in program mode without the bit masked, for
// immediate vectoring on the next instruction boundary).
func (c *CPU) handleTrap(flag uint16) uint16 {
	c.Regs.SetFlag(flag)
	if c.Regs.ShouldHalt() {
		c.Halted = true
		c.HaltReason = fmt.Sprintf("trap flags %#04x halted in automatic mode", c.Regs.Flags&c.Regs.StopFlags)
	}
	return flag
}

// pendingChannel picks the highest-priority interrupt source. A full
// per-channel priority scan belongs to the channel scheduler; the CPU
// only needs a source number to select a save slot (spec.md 4.3 names
// 20 and 40 as the two vector bases).
func (c *CPU) pendingChannel() int {
	return 20
}

// alignmentRequired reports whether opcode's operand must land on a
// five-character boundary (spec.md 4.3 step 5). The move verbs TMT,
// SND and BLM require it; every other verb, OpIOStart included, does
// not.
func alignmentRequired(opcode uint8) bool {
	switch opcode {
	case OpTMT, OpSND, OpBLM:
		return true
	default:
		return false
	}
}

// Opcode assignments. spec.md leaves the full eighty-verb mnemonic
// table to the (out-of-scope) disassembler; this is the subset whose
// behavior spec.md 4.3-4.6 actually specifies.
const (
	OpHalt uint8 = iota
	OpBranch
	OpAdd
	OpSub
	OpRAD
	OpRSU
	OpCmp
	OpMPY
	OpDIV
	OpShiftRight
	OpShiftLeft
	OpRound
	OpSetLength
	OpLDA
	OpSTA
	OpAAM
	OpTMT
	OpSND
	OpBLM
	OpTCT
	OpSPR
	OpIOStart
	OpTLU
	OpTLH
)

func (c *CPU) execute(d Decoded) uint16 {
	switch d.Opcode {
	case OpHalt:
		c.Halted = true
		c.HaltReason = "HALT instruction"
		return 0

	case OpBranch:
		c.Regs.IC = memory.Wrap(d.Addr)
		return 0

	case OpAdd, OpRAD:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.addSub(p, d.Addr, false)

	case OpSub, OpRSU:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.addSub(p, d.Addr, true)

	case OpCmp:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		_, trap := c.compare(p, d.Addr, false)
		return trap

	case OpMPY:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.multiply(p, d.Addr)

	case OpDIV:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.divide(p, d.Addr)

	case OpShiftRight:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		c.Regs.SPC = shiftRight(p, int(d.Addr%100))
		return 0

	case OpShiftLeft:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		c.Regs.SPC = shiftLeft(p, int(d.Addr%100))
		return 0

	case OpRound:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		round(p)
		return 0

	case OpSetLength:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		setLength(p, int(d.Addr%100))
		return 0

	case OpLDA:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.loadAddress(p, d.Addr, 6)

	case OpSTA:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.unloadAddress(p, d.Addr, 6, clearBitsFor(c.Regs.Model))

	case OpAAM:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		fieldLen := 4
		if c.Regs.Model == Model80K || c.Regs.Model == Model160K {
			fieldLen = 6
		}
		return c.addToMemory(p, c.Regs.MAC, fieldLen)

	case OpTMT:
		return moveField(d.Addr, c.Regs.MAC2, false)

	case OpSND:
		return moveField(d.Addr, c.Regs.MAC2, d.Reg != 0)

	case OpBLM:
		return moveField(d.Addr, c.Regs.MAC2, false)

	case OpTCT:
		_, trap := translateCompare(d.Addr, c.Regs.MAC2)
		return trap

	case OpTLU:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.tableLookup(p, d.Addr, false)

	case OpTLH:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return c.tableLookup(p, d.Addr, true)

	case OpSPR:
		p := accum.GetStart(c.Regs.SPC, d.Reg)
		return storePrint(p, d.Addr, int(d.Reg)+1)

	case OpIOStart:
		return c.startIO(d)

	default:
		return FlagInst
	}
}

// startIO issues a channel command for an I/O verb. The flat opcode
// table gives OpIOStart no room for a packed sub-op, so the channel
// slot comes from the register field and direction from the indirect
// bit; a fuller verb set would widen Decoded with a dedicated command
// field instead.
func (c *CPU) startIO(d Decoded) uint16 {
	op := device.IORDS
	if d.Indirect {
		op = device.IOWRS
	}
	return syschannel.StartIO(int(d.Reg), d.Addr, uint16(op)<<8)
}

// clearBitsFor returns the mask of low bits STA clears in the top
// memory digit for the model in play (spec.md 4.5): two bits on the
// 160K, one bit on every other model.
func clearBitsFor(m Model) uint8 {
	if m == Model160K {
		return 0x3
	}
	return 0x1
}
