/*
   i7000  - Move and store-print verbs

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
	"github.com/rcornwell/i7000/emu/digit"
	"github.com/rcornwell/i7000/emu/memory"
)

// moveField implements TMT/SND/BLM (spec.md 4.3): copies a
// storage-mark-terminated string from src to dst, one character at a
// time, stopping when the source's mark is copied. perCharacter
// restricts the copy to a single character (the reg != 0 variant
// named in spec.md 4.3) instead of running to the mark.
func moveField(src, dst uint32, perCharacter bool) uint16 {
	for i := 0; i < int(memory.GetSize()); i++ {
		c, flags := memory.ReadChar(src, FlagMCheck)
		if flags != 0 {
			return flags
		}
		memory.WriteChar(dst, c)
		src = memory.Wrap(src + 1)
		dst = memory.Wrap(dst + 1)
		if perCharacter || c == digit.StorageMark {
			break
		}
	}
	return 0
}

// translateCompare implements TCT: walks src comparing each character
// against a one-character mask at mask, stopping at the first mismatch
// or at src's storage mark; returns the number of characters scanned.
func translateCompare(src, mask uint32) (int, uint16) {
	maskChar, flags := memory.ReadChar(mask, FlagMCheck)
	if flags != 0 {
		return 0, flags
	}
	count := 0
	for i := 0; i < int(memory.GetSize()); i++ {
		c, flags := memory.ReadChar(src, FlagMCheck)
		if flags != 0 {
			return count, flags
		}
		if c == digit.StorageMark || c != maskChar {
			break
		}
		count++
		src = memory.Wrap(src + 1)
	}
	return count, 0
}

// storePrint implements SPR (spec.md 4.3): writes the accumulator's low
// length digits at p to memory in printable form, units digit at addr
// and most significant digit at addr+length-1, blanking leading zeros.
// The sign glyph (+ as Blank, - as RecordMark) goes in the position
// just past the most significant digit, addr+length.
func storePrint(p uint16, addr uint32, length int) uint16 {
	op := readAccumOperand(p)
	for len(op.digits) < length {
		op.digits = append(op.digits, 0)
	}
	if len(op.digits) > length {
		op.digits = op.digits[len(op.digits)-length:]
	}

	leadingZero := true
	a := memory.Wrap(addr + uint32(length) - 1)
	for i := length - 1; i >= 0; i-- {
		v := op.digits[i]
		var out uint8
		if v == 0 && leadingZero && i != 0 {
			out = digit.Blank
		} else {
			leadingZero = false
			out = digit.BinToBCD[v]
		}
		memory.WriteChar(a, out)
		a = memory.Wrap(a - 1 + memory.GetSize())
	}

	signAddr := memory.Wrap(addr + uint32(length))
	if op.sign {
		memory.WriteChar(signAddr, digit.RecordMark)
	} else {
		memory.WriteChar(signAddr, digit.Blank)
	}
	return 0
}
