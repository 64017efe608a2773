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
package device

// Device is the abstract bus a channel drives (spec.md 4.10, C10): a
// unit answers Command for control/start operations and the channel
// calls ReadChar/WriteChar to move data one character at a time.
type Device interface {
	Command(unit uint8, op uint8) Status // Start or continue a command.
	ReadChar() uint8                     // Produce the next character (write-to-memory direction).
	WriteChar(c uint8)                   // Consume the next character (read-from-memory direction).
	Init(unit uint8) Status              // Initialize/attach a unit.
	Shutdown()                           // Close any open backing file.
	Debug(opt string) error              // Enable a debug option.

	// Attention reports whether the device is raising its attention
	// latch (the ChsAttn bit, spec.md 4.8 step 2) on this poll — e.g. a
	// tape unit hitting physical end-of-tape mid-transfer, or an
	// operator-initiated unload. The channel scheduler polls this once
	// per step and disconnects the channel when it is true.
	Attention() bool
}

// Status is a device's response to Command/Init.
type Status uint8

const (
	StatusOK    Status = iota // Command accepted.
	StatusBusy                // Device busy, retry later.
	StatusIOErr               // Fatal, raises io-check.
	StatusNoDev               // Not attached.
)

// Channel kinds (spec.md 3, C9).
const (
	KindPolled     int = iota // Unit-record, one character per turnaround.
	KindTape                  // Double-buffered five-character parcels.
	KindHighSpeed             // Five-digit 30-bit packed burst transfer.
	KindPassThrough
)

// Channel command-word opcodes (spec.md 6), carried in the high byte of
// a command word passed from a CPU I/O verb to the channel.
const (
	IORDS uint8 = 1 + iota // Read start; 0 stays free as the channel's idle command value.
	IOWRS              // Write start.
	IOTRS              // Test signal.
	IOREW              // Rewind.
	IOWEF              // Write end-of-file.
	IOBSR              // Back-space record.
	IOBSF              // Back-space file.
	IOERG              // Erase gap.
	IORUN              // Rewind-unload.
	IOSDH              // Seek high.
	IOSDL              // Seek low.
)

// Command-word modifier bits. The sub-command occupies the low nibble
// (bits 0-3) of the low byte; these modifiers OR into the rest of it.
const (
	ChanNorec  uint16 = 0x0010 // Suppress end-of-record; run to bank boundary.
	ChanZero   uint16 = 0x0020 // Overwrite-after-write with blanks.
	ChanSkip   uint16 = 0x0040 // Drain the record without storing.
	ChanReccnt uint16 = 0x0080 // Decrement the loaded record counter.
	ChanEnd    uint16 = 0x0100 // Last parcel consumed.
	ChanCmd    uint16 = 0x0200 // Embedded op held in high bits for later dispatch.
	ChanAFull  uint16 = 0x0400 // Tape double-buffer: A parcel full.
	ChanBFull  uint16 = 0x0800 // Tape double-buffer: B parcel full.
	ChanBFlag  uint16 = 0x1000 // Tape double-buffer: current parcel is B.
)

// Device flag word (spec.md 6), visible to both channel and device.
const (
	DevSel   uint16 = 1 << iota // Device is selected.
	DevWrite                    // Direction is memory-to-device.
	DevFull                     // Assembly buffer holds one full parcel.
	DevReor                     // Device asserts end-of-record this tick.
	DevWeor                     // Write end-of-record.
	DevDisco                    // Device is disconnecting.
	ChsAttn                     // Attention latch.
	ChsEOF                      // End-of-file latch.
	ChsErr                      // Error latch.
	CtlRead                     // Command phase: read.
	CtlWrite                    // Command phase: write.
	CtlCntl                     // Command phase: control.
	CtlSns                      // Command phase: sense.
	CtlPRead                    // Command phase: control-then-read.
	CtlPWrite                   // Command phase: control-then-write.
	CtlEnd                      // Command phase: end.
)

// Channel scheduling states, a second flag group distinct from the
// device flag word above.
const (
	StaActive uint16 = 1 << iota // Channel has an in-flight command.
	StaWait                      // Waiting on a device response.
	StaTWait                     // Waiting on a second (RWW) command.
	StaPend                      // Interrupt request pending for this channel.
)

// NoDev marks an unpopulated unit slot.
const NoDev uint16 = 0xffff
