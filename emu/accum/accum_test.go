package accum

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

import (
	"testing"

	"github.com/rcornwell/i7000/emu/digit"
)

func TestNextAddrWrapsWithinBank(t *testing.T) {
	SetBankSize(BankSize256)
	if r := NextAddr(0x1ff); r != 0x100 {
		t.Errorf("NextAddr(0x1ff) got: %#x expected: 0x100", r)
	}
	if r := PrevAddr(0x100); r != 0x1ff {
		t.Errorf("PrevAddr(0x100) got: %#x expected: 0x1ff", r)
	}
}

func TestNextHalf256(t *testing.T) {
	SetBankSize(BankSize256)
	if r := NextHalf(0x100); r != 0x180 {
		t.Errorf("NextHalf(0x100) got: %#x expected: 0x180", r)
	}
	if r := NextHalf(0x1a0); r != 0x120 {
		t.Errorf("NextHalf(0x1a0) got: %#x expected: 0x120", r)
	}
}

func TestNextHalf512(t *testing.T) {
	SetBankSize(BankSize512)
	if r := NextHalf(0x000); r != 0x100 {
		t.Errorf("NextHalf(0x000) got: %#x expected: 0x100", r)
	}
	SetBankSize(BankSize256)
}

func TestGetStart(t *testing.T) {
	spc := uint16(0x500)
	if r := GetStart(spc, 0); r != spc {
		t.Errorf("GetStart(reg=0) got: %#x expected: %#x", r, spc)
	}
	if r := GetStart(spc, 1); r != 0x500|0x100 {
		t.Errorf("GetStart(reg=1) got: %#x expected: %#x", r, 0x500|0x100)
	}
	if r := GetStart(spc, 15); r != (0x500 | 0x100 | (14 << 4)) {
		t.Errorf("GetStart(reg=15) got: %#x expected: %#x", r, 0x500|0x100|(14<<4))
	}
}

func TestReadWriteString(t *testing.T) {
	SetBankSize(BankSize256)
	p := uint16(0x100)
	WriteString(p, []uint8{3, 5, digit.NumericZero})
	got := ReadString(p)
	want := []uint8{3, 5, digit.NumericZero}
	if len(got) != len(want) {
		t.Fatalf("ReadString length got: %d expected: %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReadString[%d] got: %d expected: %d", i, got[i], want[i])
		}
	}
	if n := Length(p); n != 3 {
		t.Errorf("Length got: %d expected: 3", n)
	}
}

func TestClearIsEmptyAccumulator(t *testing.T) {
	SetBankSize(BankSize256)
	p := uint16(0x140)
	WriteString(p, []uint8{1, 2, 3})
	Clear(p)
	if n := Length(p); n != 0 {
		t.Errorf("Length after Clear got: %d expected: 0", n)
	}
	if d := ReadChar(p); d != digit.StorageMark {
		t.Errorf("ReadChar after Clear got: %d expected: StorageMark", d)
	}
}
