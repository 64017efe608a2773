/*
   i7000  - Channel scheduler and per-kind state machines

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

// C8/C9: round-robin channel scheduler and the four per-kind channel
// state machines (spec.md 4.8/4.9), generalized from the teacher's
// cooperative single-thread CCW scheduler (emu/sys_channel in the
// teacher tree) down to this system's character-transfer protocol:
// there is no CCW chain to fetch, so the scheduler sweeps a fixed
// array of channel slots instead of subchannels-per-device.
package syschannel

import (
	"errors"
	"strconv"
	"strings"

	config "github.com/rcornwell/i7000/config/configparser"
	"github.com/rcornwell/i7000/emu/device"
	"github.com/rcornwell/i7000/emu/memory"
)

// NumChannels is the number of channel slots the scheduler scans
// (spec.md 3: "eleven channel slots").
const NumChannels = 11

// Channel holds one channel slot's scheduling state (spec.md 3).
type Channel struct {
	Kind   int
	Dev    device.Device
	Unit   uint8
	State  uint16 // STA_* bits (device.StaActive etc), spec.md 6.
	Enable bool

	addr    uint32 // Current memory transfer address.
	cmd     uint8  // Command opcode in progress, 0 if idle.
	mods    uint16 // CHAN_* modifier bits from the issuing command word.
	recCnt  int    // Parcels committed under ChanReccnt (tape); the command ends at 999.
	pending uint16 // Queued RWW second command, 0 if none.

	// Tape double-buffer state (spec.md 4.9).
	parcelA, parcelB [5]uint8
	aFull, bFull     bool
	bCurrent         bool
	parcelPos        int

	// High-speed control-phase state (spec.md 4.9).
	inControl bool
	subCmd    []uint8

	ioFlags uint8 // Latched io-flags vector bit for "test signal" (spec.md 4.8 step 2/3).
}

var channels [NumChannels]Channel

// AddChannel installs a device-bearing channel at slot n.
func AddChannel(n int, kind int, unit uint8, dev device.Device) {
	channels[n] = Channel{Kind: kind, Dev: dev, Unit: unit, Enable: true}
}

// Get returns the channel at slot n, or nil if n is out of range.
func Get(n int) *Channel {
	if n < 0 || n >= NumChannels {
		return nil
	}
	return &channels[n]
}

// StartIO issues a channel command word to the channel, per spec.md
// 6's command-word layout: high byte is the op, low nibble the
// sub-command, CHAN_* bits OR into the low byte as modifiers. It
// returns the io-check trap flags the CPU's executor should report
// immediately (empty or disabled slot, NODEV, IOERR), or 0 if the command was
// accepted (possibly as BUSY, to be retried by the scheduler).
func StartIO(slot int, addr uint32, cmdWord uint16) uint16 {
	ch := Get(slot)
	if ch == nil || !ch.Enable || ch.Dev == nil {
		return ioCheckFlag
	}

	op := uint8(cmdWord >> 8)
	status := ch.Dev.Command(ch.Unit, op)
	switch status {
	case device.StatusNoDev, device.StatusIOErr:
		return ioCheckFlag
	case device.StatusBusy:
		ch.pending = cmdWord
		ch.addr = addr
		ch.State = device.StaWait
		return 0
	}

	ch.cmd = op
	ch.mods = cmdWord & 0x1ff0
	ch.addr = addr
	ch.State = device.StaActive
	ch.recCnt = 0
	ch.aFull, ch.bFull, ch.bCurrent, ch.parcelPos = false, false, false, 0
	ch.inControl = (ch.mods & device.ChanCmd) != 0
	ch.subCmd = ch.subCmd[:0]
	return 0
}

// ioCheckFlag mirrors cpu.FlagIOCheck without importing the cpu
// package (which already imports device/memory); the numeric value is
// fixed by spec.md 3's shared flag-word layout.
const ioCheckFlag uint16 = 1 << 6

// Scheduler advances every enabled channel's state machine exactly
// once, in strict slot order (spec.md 4.8, 5's fairness/ordering
// guarantee). It is invoked at each CPU instruction boundary and while
// the executor waits on a channel (spec.md 5).
func Scheduler() {
	for i := range channels {
		ch := &channels[i]
		if !ch.Enable || ch.Dev == nil {
			continue
		}
		stepChannel(ch)
	}
}

func stepChannel(ch *Channel) {
	// Step 1: honour a pending RWW second command.
	if ch.State == device.StaWait && ch.pending != 0 {
		op := uint8(ch.pending >> 8)
		status := ch.Dev.Command(ch.Unit, op)
		if status == device.StatusBusy {
			return
		}
		ch.cmd = op
		ch.mods = ch.pending & 0x1ff0
		ch.pending = 0
		ch.State = device.StaActive
	}

	if ch.State&(device.StaActive|device.StaWait) == 0 {
		return
	}

	// Step 2: device-raised attention disconnects the channel.
	if attnRaised(ch) {
		ch.State = 0
		switch ch.Kind {
		case device.KindTape, device.KindHighSpeed:
			ch.State = device.StaPend
		case device.KindPolled:
			ch.ioFlags |= recordCheckBit
		}
		ch.cmd = 0
		return
	}

	switch ch.Kind {
	case device.KindPolled:
		stepPolled(ch)
	case device.KindTape:
		stepTape(ch)
	case device.KindHighSpeed:
		stepHighSpeed(ch)
	case device.KindPassThrough:
		stepPassThrough(ch)
	}

	// Step 3: transfer finished, no read/write/sense/control bits left.
	if ch.cmd == 0 && ch.State == device.StaActive {
		ch.State = 0
	}
}

const recordCheckBit uint8 = 0x01

// attnRaised polls the device's attention latch (spec.md 4.8 step 2,
// device.ChsAttn): a mid-transfer condition the device itself detects
// (physical end-of-tape, an operator unload) independent of the
// character stream stepPolled/stepTape/stepHighSpeed are walking. It is
// checked once per Scheduler pass before the per-kind step function
// runs, so an attention raised between two characters of the same
// transfer disconnects the channel before the next character moves
// (spec.md 8's "channel attention mid-read" scenario).
func attnRaised(ch *Channel) bool {
	return ch.Dev.Attention()
}

// stepPolled implements the unit-record/pass-through byte-at-a-time
// protocol (spec.md 4.9).
func stepPolled(ch *Channel) {
	if ch.cmd&0x3 == 1 { // read
		c := ch.Dev.ReadChar()
		if c == endOfRecord {
			ch.cmd = 0
			return
		}
		memory.WriteChar(ch.addr, c)
		ch.addr = memory.Wrap(ch.addr + 1)
		if ch.addr >= memory.GetSize() {
			ch.State = 0
			ch.ioFlags |= recordCheckBit
			ch.cmd = 0
		}
		return
	}
	c, flags := memory.ReadChar(ch.addr, 0)
	if flags != 0 || c == storageMark {
		ch.cmd = 0
		return
	}
	ch.Dev.WriteChar(c)
	ch.addr = memory.Wrap(ch.addr + 1)
	if ch.addr >= memory.GetSize() {
		ch.State = 0
		ch.ioFlags |= recordCheckBit
		ch.cmd = 0
	}
}

const endOfRecord uint8 = 0x1a // RecordMark, emu/digit.RecordMark.
const storageMark uint8 = 0x00

// stepTape implements the double-buffer five-character parcel
// protocol (spec.md 4.9): characters accumulate into the current
// parcel, commit in one five-character transfer when full, and the
// current-parcel bit toggles. With ChanReccnt set, each committed
// parcel increments recCnt from zero and the command ends when it
// reaches 999; no starting count is loaded.
func stepTape(ch *Channel) {
	reading := ch.cmd&0x3 == 1
	parcel := &ch.parcelA
	full := &ch.aFull
	if ch.bCurrent {
		parcel = &ch.parcelB
		full = &ch.bFull
	}

	if reading {
		c := ch.Dev.ReadChar()
		if c == endOfRecord {
			for i := ch.parcelPos; i < 5; i++ {
				parcel[i] = groupMark
			}
			ch.parcelPos = 5
		} else {
			parcel[ch.parcelPos] = c
			ch.parcelPos++
		}
	} else {
		c, flags := memory.ReadChar(ch.addr, 0)
		if flags != 0 {
			ch.cmd = 0
			return
		}
		parcel[ch.parcelPos] = c
		ch.parcelPos++
		ch.addr = memory.Wrap(ch.addr + 1)
	}

	if ch.parcelPos < 5 {
		return
	}
	ch.parcelPos = 0

	if reading {
		for _, d := range parcel {
			memory.WriteChar(ch.addr, d)
			ch.addr = memory.Wrap(ch.addr + 1)
		}
	} else {
		for _, d := range parcel {
			ch.Dev.WriteChar(d)
		}
		if ch.mods&device.ChanZero != 0 {
			for a := memory.Wrap(ch.addr - 5); a != ch.addr; a = memory.Wrap(a + 1) {
				memory.WriteChar(a, 0x10) // digit.Blank
			}
		}
	}
	*full = true
	ch.bCurrent = !ch.bCurrent

	if ch.mods&device.ChanReccnt != 0 {
		ch.recCnt++
		if ch.recCnt >= 999 {
			ch.cmd = 0
		}
	}
}

const groupMark uint8 = 0x0f

// stepHighSpeed implements the five-digit binary-packed word protocol
// (spec.md 4.9): an optional control phase collects sub-command digits
// up to a group-mark, then the channel transitions into a five-digit
// burst read or write.
func stepHighSpeed(ch *Channel) {
	if ch.inControl {
		c := ch.Dev.ReadChar()
		if c == groupMark {
			ch.inControl = false
			return
		}
		ch.subCmd = append(ch.subCmd, c)
		return
	}

	var word [5]uint8
	if ch.cmd&0x3 == 1 {
		for i := range word {
			word[i] = ch.Dev.ReadChar()
		}
		for i := range word {
			memory.WriteChar(memory.Wrap(ch.addr+uint32(i)), word[i])
		}
	} else {
		for i := range word {
			c, flags := memory.ReadChar(memory.Wrap(ch.addr+uint32(i)), 0)
			if flags != 0 {
				ch.cmd = 0
				return
			}
			word[i] = c
		}
		for _, d := range word {
			ch.Dev.WriteChar(d)
		}
	}
	ch.addr = memory.Wrap(ch.addr + 5)
	ch.cmd = 0
}

// stepPassThrough is the polled fallback used by channels that are
// neither tape nor high-speed (spec.md 4.9's fourth flavor).
func stepPassThrough(ch *Channel) {
	stepPolled(ch)
}

// ResetAll implements CHR 3-13 (spec.md 5's cancellation note): it
// forcibly clears ioFlags, STA_ACTIVE, the command in progress and any
// queued RWW command on every channel. The channel keeps no attention
// latch of its own (attention is polled from the device each pass),
// and nothing on the device side, device selection included, is reset.
func ResetAll() {
	for i := range channels {
		ch := &channels[i]
		ch.ioFlags = 0
		ch.State &^= device.StaActive
		ch.cmd = 0
		ch.pending = 0
	}
}

func init() {
	config.RegisterModel("CHANNEL", config.TypeOptions, create)
}

func create(_ uint16, number string, options []config.Option) error {
	n, err := strconv.Atoi(number)
	if err != nil || n < 0 || n >= NumChannels {
		return errors.New("channel number must be 0.." + strconv.Itoa(NumChannels-1) + ": " + number)
	}

	var kind int
	kindSet := false
	for _, option := range options {
		switch strings.ToUpper(option.Name) {
		case "TAPE":
			kind, kindSet = device.KindTape, true
		case "UNIT", "POLLED":
			kind, kindSet = device.KindPolled, true
		case "HSP", "HIGHSPEED":
			kind, kindSet = device.KindHighSpeed, true
		case "PASS":
			kind, kindSet = device.KindPassThrough, true
		default:
			return errors.New("channel: invalid option " + option.Name)
		}
	}
	if !kindSet {
		return errors.New("channel: no kind specified for channel " + number)
	}

	channels[n] = Channel{Kind: kind, Enable: true}
	return nil
}
