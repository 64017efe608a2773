package device

/*
i7000  - Channel/device interface

	Copyright (c) 2024, Richard Cornwell

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

import "testing"

// testDev is a minimal in-memory stand-in used only by this package's
// own tests; emu/syschannel's tests define their own fakeDevice.
type testDev struct {
	buf []uint8
	pos int
}

func (d *testDev) Command(_ uint8, _ uint8) Status { return StatusOK }

func (d *testDev) ReadChar() uint8 {
	if d.pos >= len(d.buf) {
		return 0
	}
	c := d.buf[d.pos]
	d.pos++
	return c
}

func (d *testDev) WriteChar(c uint8) {
	d.buf = append(d.buf, c)
}

func (d *testDev) Init(_ uint8) Status  { return StatusOK }
func (d *testDev) Shutdown()            {}
func (d *testDev) Debug(_ string) error { return nil }
func (d *testDev) Attention() bool      { return false }

func TestTestDevImplementsDevice(t *testing.T) {
	var dv Device = &testDev{buf: []uint8{1, 2, 3}}
	if dv.ReadChar() != 1 {
		t.Errorf("ReadChar got wrong first character")
	}
	dv.WriteChar(9)
}

func TestCommandWordModifiersDoNotOverlapSubCommand(t *testing.T) {
	subCommandMask := uint16(0x0f)
	mods := []uint16{ChanNorec, ChanZero, ChanSkip, ChanReccnt, ChanEnd, ChanCmd, ChanAFull, ChanBFull, ChanBFlag}
	for _, m := range mods {
		if m&subCommandMask != 0 {
			t.Errorf("modifier %#x overlaps the sub-command nibble", m)
		}
	}
}

func TestDeviceFlagsAreDistinctBits(t *testing.T) {
	flags := []uint16{DevSel, DevWrite, DevFull, DevReor, DevWeor, DevDisco, ChsAttn, ChsEOF, ChsErr,
		CtlRead, CtlWrite, CtlCntl, CtlSns, CtlPRead, CtlPWrite, CtlEnd}
	seen := uint16(0)
	for _, f := range flags {
		if seen&f != 0 {
			t.Errorf("flag %#x collides with an earlier flag", f)
		}
		seen |= f
	}
}
