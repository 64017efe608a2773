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

package syschannel

import (
	"testing"

	"github.com/rcornwell/i7000/emu/device"
	"github.com/rcornwell/i7000/emu/memory"
)

// fakeDevice is a minimal in-memory stand-in driving the channel state
// machines without a real unit-record or tape backend.
type fakeDevice struct {
	in   []uint8
	pos  int
	out  []uint8
	attn bool
}

func (d *fakeDevice) Command(_ uint8, _ uint8) device.Status { return device.StatusOK }

func (d *fakeDevice) Attention() bool { return d.attn }

func (d *fakeDevice) ReadChar() uint8 {
	if d.pos >= len(d.in) {
		return 0
	}
	c := d.in[d.pos]
	d.pos++
	return c
}

func (d *fakeDevice) WriteChar(c uint8) { d.out = append(d.out, c) }
func (d *fakeDevice) Init(_ uint8) device.Status { return device.StatusOK }
func (d *fakeDevice) Shutdown()                   {}
func (d *fakeDevice) Debug(_ string) error         { return nil }

func resetChannels() {
	for i := 0; i < NumChannels; i++ {
		channels[i] = Channel{}
	}
	memory.SetSize(10_000)
}

func TestStartIONoDeviceReturnsIOCheck(t *testing.T) {
	resetChannels()
	if trap := StartIO(0, 100, uint16(device.IORDS)<<8); trap != ioCheckFlag {
		t.Errorf("StartIO on empty slot got: %#x expected: %#x", trap, ioCheckFlag)
	}
}

func TestStartIOAcceptedSetsActive(t *testing.T) {
	resetChannels()
	dev := &fakeDevice{}
	AddChannel(0, device.KindPolled, 0, dev)
	if trap := StartIO(0, 100, uint16(device.IORDS)<<8); trap != 0 {
		t.Fatalf("StartIO got unexpected trap: %#x", trap)
	}
	ch := Get(0)
	if ch.State != device.StaActive {
		t.Errorf("State got: %#x expected: StaActive", ch.State)
	}
	if ch.cmd != device.IORDS {
		t.Errorf("cmd got: %d expected: %d", ch.cmd, device.IORDS)
	}
}

func TestStartIOBusyQueuesRWW(t *testing.T) {
	resetChannels()
	dev := &busyOnceDevice{}
	AddChannel(0, device.KindPolled, 0, dev)
	if trap := StartIO(0, 100, uint16(device.IOWRS)<<8); trap != 0 {
		t.Fatalf("StartIO got unexpected trap: %#x", trap)
	}
	ch := Get(0)
	if ch.State != device.StaWait || ch.pending == 0 {
		t.Errorf("expected a queued RWW command, got State=%#x pending=%#x", ch.State, ch.pending)
	}
}

type busyOnceDevice struct {
	fakeDevice
	asked bool
}

func (d *busyOnceDevice) Command(unit uint8, op uint8) device.Status {
	if !d.asked {
		d.asked = true
		return device.StatusBusy
	}
	return device.StatusOK
}

func TestStepPolledReadStopsOnEndOfRecord(t *testing.T) {
	resetChannels()
	dev := &fakeDevice{in: []uint8{1, 2, endOfRecord, 9}}
	AddChannel(0, device.KindPolled, 0, dev)
	StartIO(0, 500, uint16(device.IORDS)<<8)
	for i := 0; i < 4; i++ {
		Scheduler()
	}
	ch := Get(0)
	if ch.cmd != 0 {
		t.Errorf("expected command to terminate at the record mark")
	}
	if c, _ := memory.ReadChar(500, 0); c != 1 {
		t.Errorf("first transferred char got: %d expected: 1", c)
	}
	if c, _ := memory.ReadChar(501, 0); c != 2 {
		t.Errorf("second transferred char got: %d expected: 2", c)
	}
}

func TestChannelAttentionDisconnectsMidRead(t *testing.T) {
	resetChannels()
	dev := &fakeDevice{in: []uint8{1, 2, 3, 4}}
	AddChannel(0, device.KindPolled, 0, dev)
	// Main memory is shared between tests; clear the second target cell
	// so the check below sees only this test's transfer.
	memory.WriteChar(501, 0)
	StartIO(0, 500, uint16(device.IORDS)<<8)

	// One character transfers normally before the device raises
	// attention mid-record (spec.md 8's "channel attention mid-read").
	Scheduler()
	if c, _ := memory.ReadChar(500, 0); c != 1 {
		t.Fatalf("first transferred char got: %d expected: 1", c)
	}

	dev.attn = true
	Scheduler()

	ch := Get(0)
	if ch.State != 0 {
		t.Errorf("State got: %#x expected: 0 after a polled device's attention disconnect", ch.State)
	}
	if ch.cmd != 0 {
		t.Error("expected the in-flight command cleared after attention")
	}
	// The disconnect must pre-empt the transfer: the second character
	// must never have reached memory.
	if c, _ := memory.ReadChar(501, 0); c != 0 {
		t.Errorf("second char got: %d expected: 0 (untransferred)", c)
	}
}

func TestStepPolledWriteStopsOnStorageMark(t *testing.T) {
	resetChannels()
	memory.WriteChar(700, 5)
	memory.WriteChar(701, 6)
	memory.WriteChar(702, storageMark)
	dev := &fakeDevice{}
	AddChannel(0, device.KindPolled, 0, dev)
	StartIO(0, 700, uint16(device.IOWRS)<<8)
	for i := 0; i < 4; i++ {
		Scheduler()
	}
	ch := Get(0)
	if ch.cmd != 0 {
		t.Errorf("expected command to terminate at the storage mark")
	}
	if len(dev.out) != 2 || dev.out[0] != 5 || dev.out[1] != 6 {
		t.Errorf("device output got: %v expected: [5 6]", dev.out)
	}
}

func TestStepTapeDoubleBufferTogglesCurrentParcel(t *testing.T) {
	resetChannels()
	dev := &fakeDevice{in: []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 0}}
	AddChannel(0, device.KindTape, 0, dev)
	StartIO(0, 900, uint16(device.IORDS)<<8)
	for i := 0; i < 5; i++ {
		Scheduler()
	}
	ch := Get(0)
	if !ch.aFull || ch.bCurrent != true {
		t.Errorf("after one five-char parcel, expected A full and current flipped to B, got aFull=%v bCurrent=%v", ch.aFull, ch.bCurrent)
	}
	if c, _ := memory.ReadChar(900, 0); c != 1 {
		t.Errorf("first parcel digit got: %d expected: 1", c)
	}

	for i := 0; i < 5; i++ {
		Scheduler()
	}
	if !ch.bFull {
		t.Errorf("after the second parcel, expected B full too")
	}
}

func TestResetAllClearsActiveButPreservesDevice(t *testing.T) {
	resetChannels()
	dev := &fakeDevice{}
	AddChannel(0, device.KindPolled, 0, dev)
	StartIO(0, 100, uint16(device.IORDS)<<8)
	Get(0).ioFlags = recordCheckBit

	ResetAll()

	ch := Get(0)
	if ch.State&device.StaActive != 0 {
		t.Errorf("expected StaActive cleared after ResetAll")
	}
	if ch.ioFlags != 0 {
		t.Errorf("expected ioFlags cleared after ResetAll")
	}
	if ch.Dev != dev {
		t.Errorf("expected the device binding to survive a forced channel clear")
	}
}

func TestAtMostOneChannelPendingAtOnce(t *testing.T) {
	resetChannels()
	for i := 0; i < NumChannels; i++ {
		channels[i].State = 0
	}
	channels[3].State = device.StaPend
	pending := 0
	for i := range channels {
		if channels[i].State&device.StaPend != 0 {
			pending++
		}
	}
	if pending != 1 {
		t.Errorf("expected exactly one channel pending, got %d", pending)
	}
}
