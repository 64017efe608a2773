/*
 * i7000  - Digit and BCD conversion constants
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

// Package digit holds the machine's six-bit digit encoding (spec.md 3):
// sentinel values, sign nibbles, and the BCD-to-binary round trip used
// throughout the BCD engine.
package digit

// Sentinel digit values.
const (
	StorageMark uint8 = 0x00 // End-of-string terminator in the window store.
	GroupMark   uint8 = 0x0f // Printable end-of-block sentinel.
	RecordMark  uint8 = 0x1a // Inter-record sentinel on tape/decks.
	Blank       uint8 = 0x10 // Printable space (octal 20).
)

// Sign values carried on the two zone bits (bits 4-5) of a six-bit
// digit's low-order position in a packed decimal field. spec.md 3 names
// these with the conventional zoned-decimal overpunch values C/D/F;
// since a digit here is six bits wide (four value bits, two zone bits,
// see ZoneOf), the two-bit zone field is the vehicle for that sign
// rather than a full byte nibble.
const (
	SignMinus    uint8 = 0x1
	SignPlus     uint8 = 0x2
	SignUnsigned uint8 = 0x3
)

// NumericZero is the in-storage encoding of the digit zero; digit 0
// itself always means "end of string" (StorageMark).
const NumericZero uint8 = 0x0a

// BinToBCD converts a decimal digit value 0..9 to its storage digit,
// where binary 0 maps to the numeric-zero encoding (storage digit 10,
// never storage digit 0 — that would terminate the string).
var BinToBCD [10]uint8

// BCDToBin is the inverse: it maps a legal numeric storage digit (1..9
// or the numeric-zero encoding 10) back to its binary value 0..9.
var BCDToBin [16]uint8

func init() {
	// Digits 1..9 map to themselves; the numeric-zero encoding maps from
	// and to binary 0, matching spec.md 3 ("Digit 10 in the store means
	// the numeric value zero").
	for i := uint8(1); i <= 9; i++ {
		BinToBCD[i] = i
		BCDToBin[i] = i
	}
	BinToBCD[0] = NumericZero
	BCDToBin[NumericZero] = 0
}

// IsNumeric reports whether d is a legal numeric storage digit: 1..9 or
// the numeric-zero encoding 10.
func IsNumeric(d uint8) bool {
	return (d >= 1 && d <= 9) || d == NumericZero
}

// IsLegalValue reports whether the four value bits of a digit are a
// legal BCD nibble, 0..10 (spec.md 4.3 step 4: "verify all operand
// digits are 0-10"). This differs from IsNumeric in that a bare 0 is
// accepted here — address and opcode fields use plain 0 as a literal
// digit, not as the window store's end-of-string mark.
func IsLegalValue(d uint8) bool {
	v := ValueOf(d)
	return v <= 10
}

// ZoneOf returns the two zone bits (bits 4-5) of a six-bit digit.
func ZoneOf(d uint8) uint8 { return (d >> 4) & 0x3 }

// ValueOf returns the four value bits (bits 0-3) of a six-bit digit.
func ValueOf(d uint8) uint8 { return d & 0xf }

// SignOf extracts the sign implied by the zone bits of the low-order
// digit of a packed field. Any zone value other than the three legal
// ones reads as plus but is never produced on write (spec.md 3).
func SignOf(d uint8) (negative bool, legal bool) {
	switch ZoneOf(d) {
	case SignPlus:
		return false, true
	case SignMinus:
		return true, true
	case SignUnsigned:
		return false, true
	default:
		return false, false
	}
}
