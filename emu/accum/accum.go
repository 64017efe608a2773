/*
 * i7000  - Accumulator window store
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

// Package accum is the accumulator window store (spec.md 3, C3): a
// 1536-character overlay memory distinct from main memory, walked by
// precomputed next/prev/half permutation tables rather than addressed
// directly. Callers hold the start pointer (spc/spcb, CPU-resident);
// this package only knows how to navigate and read/write the overlay.
package accum

import "github.com/rcornwell/i7000/emu/digit"

// Size is the total overlay, shared by every model; only the bank
// geometry carved out of it differs.
const Size = 1536

// BankSize256 is the "A window + fifteen ASUs" geometry used by every
// model except the 10K.
const BankSize256 = 256

// BankSize512 is the 10K machine's two-window ("A", "B") geometry.
const BankSize512 = 512

type store struct {
	data     [Size]uint8
	nextAddr [Size]uint16
	prevAddr [Size]uint16
	nextHalf [Size]uint16
	bankSize uint16
}

var win store

// SetBankSize installs the model's bank geometry and rebuilds the three
// navigation tables. bankSize must be a power of two (256 or 512); any
// other value is rejected silently and the previous geometry is kept.
func SetBankSize(bankSize uint16) {
	if bankSize != BankSize256 && bankSize != BankSize512 {
		return
	}
	win.bankSize = bankSize
	mask := bankSize - 1
	half := bankSize / 2
	for i := uint16(0); i < Size; i++ {
		base := i &^ mask
		win.nextAddr[i] = base | ((i + 1) & mask)
		win.prevAddr[i] = base | ((i - 1) & mask)
		win.nextHalf[i] = base | ((i + half) & mask)
	}
}

// NextAddr returns the successor of i within its bank.
func NextAddr(i uint16) uint16 { return win.nextAddr[i%Size] }

// PrevAddr returns the predecessor of i within its bank.
func PrevAddr(i uint16) uint16 { return win.prevAddr[i%Size] }

// NextHalf returns the position half a bank away from i, used to locate
// the multiply partial-product destination and the divide secondary.
func NextHalf(i uint16) uint16 { return win.nextHalf[i%Size] }

// GetStart synthesizes the window index of the accumulator designated
// by a register-select field: 0 selects spc (the caller's current A, or
// B on a 10K B-accumulator access) directly; 1..15 selects the
// numbered ASU in spc's own bank, per spec.md 3's
// "(spc & 0x700) | 0x100 | ((k-1) << 4)" rule.
func GetStart(spc uint16, reg uint8) uint16 {
	if reg == 0 {
		return spc
	}
	return (spc & 0x0700) | 0x0100 | (uint16(reg-1) << 4)
}

// ReadChar returns the digit at window index addr.
func ReadChar(addr uint16) uint8 {
	return win.data[addr%Size] & 0x3f
}

// WriteChar stores digit at window index addr.
func WriteChar(addr uint16, d uint8) {
	win.data[addr%Size] = d & 0x3f
}

// Length walks the accumulator string starting at p and returns the
// number of digits before the storage mark, stopping after Size steps
// to guard against a corrupt (unterminated) string.
func Length(p uint16) int {
	n := 0
	for i := uint16(0); i < Size; i++ {
		if ReadChar(p) == digit.StorageMark {
			break
		}
		p = NextAddr(p)
		n++
	}
	return n
}

// ReadString returns the digits of the accumulator starting at p, not
// including the terminating storage mark.
func ReadString(p uint16) []uint8 {
	out := make([]uint8, 0, 8)
	for i := uint16(0); i < Size; i++ {
		d := ReadChar(p)
		if d == digit.StorageMark {
			break
		}
		out = append(out, d)
		p = NextAddr(p)
	}
	return out
}

// WriteString writes digits starting at p and terminates the string
// with a storage mark in the position that follows. NextAddr wraps
// within p's bank, so a string longer than the room left before the
// bank's end continues at the bank's start; nothing checks for this
// and no overflow is raised.
func WriteString(p uint16, digits []uint8) {
	for _, d := range digits {
		WriteChar(p, d)
		p = NextAddr(p)
	}
	WriteChar(p, digit.StorageMark)
}

// Clear writes a single storage mark at p, producing an empty
// accumulator.
func Clear(p uint16) {
	WriteChar(p, digit.StorageMark)
}

func init() {
	SetBankSize(BankSize256)
}
