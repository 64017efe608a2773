package memory

/*
 * i7000  - Low level character memory
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Character-addressed main store. Every position is a six-bit digit
// plus a validity bit; an all-zero character (never written) or one
// explicitly marked invalid raises the caller's fault class on read.

const (
	// MaxSize is the largest installable memory, the 160K top-end model.
	MaxSize = 160_000

	validBit   uint8 = 0x40 // Set on a character explicitly marked invalid.
	writtenBit uint8 = 0x80 // Set on every character WriteChar has stored.
	digitBit   uint8 = 0x3f // Six-bit digit value mask.
)

type mem struct {
	store [MaxSize]uint8
	size  uint32
}

var memory mem

// SetSize installs size characters of memory, collapsed to the largest
// supported size if size exceeds it. Existing contents are unaffected.
func SetSize(size int) {
	if size > MaxSize {
		size = MaxSize
	}
	if size < 0 {
		size = 0
	}
	memory.size = uint32(size)
}

// GetSize returns the currently installed effective memory size.
func GetSize() uint32 {
	return memory.size
}

// CheckAddr reports whether addr is within the installed memory.
func CheckAddr(addr uint32) bool {
	return addr < memory.size
}

// Wrap reduces addr modulo the installed memory size.
func Wrap(addr uint32) uint32 {
	if memory.size == 0 {
		return 0
	}
	return addr % memory.size
}

// ReadChar returns the six-bit digit at addr. If the character was
// never written or carries a validity fault, faultClass is returned as
// the flags the caller should OR into the CPU flag word.
func ReadChar(addr uint32, faultClass uint16) (digit uint8, flags uint16) {
	addr = Wrap(addr)
	raw := memory.store[addr]
	digit = raw & digitBit
	if (raw&validBit) != 0 || (raw&writtenBit) == 0 {
		flags = faultClass
	}
	return digit, flags
}

// WriteChar stores digit (masked to six bits) at addr, clearing any
// validity fault on that character.
func WriteChar(addr uint32, digit uint8) {
	addr = Wrap(addr)
	memory.store[addr] = digit&digitBit | writtenBit
}

// MarkInvalid flags addr as carrying a validity fault without changing
// its stored digit, used to inject machine-check conditions in tests.
func MarkInvalid(addr uint32) {
	addr = Wrap(addr)
	memory.store[addr] |= validBit
}

// ReadFive reads the five characters at addr-4..addr (addr is the
// units-digit position) and packs them low-digit-first into a 30-bit
// value, matching the instruction-word layout of spec.md 3.
func ReadFive(addr uint32, faultClass uint16) (packed uint32, flags uint16) {
	for i := uint32(0); i < 5; i++ {
		d, f := ReadChar(addr-i, faultClass)
		flags |= f
		packed |= uint32(d) << (6 * i)
	}
	return packed, flags
}

// WriteFive is the inverse of ReadFive.
func WriteFive(addr uint32, packed uint32) {
	for i := uint32(0); i < 5; i++ {
		WriteChar(addr-i, uint8((packed>>(6*i))&0x3f))
	}
}
