/*
   i7000  - BCD arithmetic engine

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

// Digit-at-a-time BCD primitives (spec.md 4.5, C6), adapted from the
// teacher's cpu_decimal.go complement-and-add algorithm to variable
// length, storage-mark-terminated operands instead of fixed 31-digit
// packed-decimal fields.
package cpu

import (
	"github.com/rcornwell/i7000/emu/accum"
	"github.com/rcornwell/i7000/emu/digit"
	"github.com/rcornwell/i7000/emu/memory"
)

// operand is a sign plus a slice of binary digit values (LSD first),
// the in-memory form used while an add/subtract/multiply/divide runs.
type operand struct {
	sign   bool // true == negative
	digits []uint8
}

// readMemoryOperand walks forward from addr (the units-digit position)
// until a storage mark, extracting the sign from the first character's
// zone and binary values via BCDToBin. A missing or uninitialized
// memory cell is a genuine hardware fault and aborts the read
// (FlagMCheck); an illegal sign nibble or out-of-range digit value is
// not: per spec.md 4.5/4.7 the operand is treated as positive (or the
// digit as zero) and the op continues to completion, with only the
// sign-error flag latched for the interrupt logic to observe at the
// next instruction boundary, matching the original's do_addsub falling
// through to "treat as positive" rather than aborting.
func (c *CPU) readMemoryOperand(addr uint32) (operand, uint16) {
	var op operand
	first := true
	for i := 0; i < accum.Size; i++ {
		ch, flags := memory.ReadChar(addr, FlagMCheck)
		if flags != 0 {
			return op, flags
		}
		if ch == digit.StorageMark {
			break
		}
		if first {
			neg, legal := digit.SignOf(ch)
			if !legal {
				c.Regs.SetFlag(FlagSignErr)
			} else {
				op.sign = neg
			}
			first = false
		}
		v := digit.ValueOf(ch)
		if digit.IsNumeric(v) {
			op.digits = append(op.digits, digit.BCDToBin[v])
		} else {
			op.digits = append(op.digits, 0)
		}
		addr = memory.Wrap(addr + 1)
	}
	return op, 0
}

// writeMemoryOperand rewrites an operand in place starting at addr,
// encoding the sign zone on the low-order (first) digit and terminating
// with a storage mark.
func writeMemoryOperand(addr uint32, op operand) {
	zone := digit.SignPlus
	if op.sign {
		zone = digit.SignMinus
	}
	for i, v := range op.digits {
		d := digit.BinToBCD[v]
		if i == 0 {
			d |= zone << 4
		}
		memory.WriteChar(addr, d)
		addr = memory.Wrap(addr + 1)
	}
	memory.WriteChar(addr, digit.StorageMark)
}

// readAccumOperand walks the window store accumulator starting at p.
func readAccumOperand(p uint16) operand {
	var op operand
	first := true
	pos := p
	for i := 0; i < accum.Size; i++ {
		c := accum.ReadChar(pos)
		if c == digit.StorageMark {
			break
		}
		if first {
			neg, _ := digit.SignOf(c)
			op.sign = neg
			first = false
		}
		op.digits = append(op.digits, digit.BCDToBin[digit.ValueOf(c)])
		pos = accum.NextAddr(pos)
	}
	return op
}

// writeAccumOperand rewrites the accumulator starting at p.
func writeAccumOperand(p uint16, op operand) {
	zone := digit.SignPlus
	if op.sign {
		zone = digit.SignMinus
	}
	pos := p
	for i, v := range op.digits {
		d := digit.BinToBCD[v]
		if i == 0 {
			d |= zone << 4
		}
		accum.WriteChar(pos, d)
		pos = accum.NextAddr(pos)
	}
	accum.WriteChar(pos, digit.StorageMark)
}

// isZero reports whether every digit of an operand is zero.
func isZero(op operand) bool {
	for _, v := range op.digits {
		if v != 0 {
			return false
		}
	}
	return true
}

// addSub adds (or, with subtractMode, subtracts) the memory operand
// into the accumulator at p, per spec.md 4.5. It implements the
// complement-and-add algorithm digit by digit: the smaller-signed
// operand is ones-complemented as it is consumed when a true subtract
// is in effect, a final carry keeps the accumulator's sign, and a
// final borrow triggers a second recomplement pass with the sign
// flipped, exactly as the teacher's decAdd/decRecomp pair does for its
// fixed-length fields.
func (c *CPU) addSub(p uint16, addr uint32, subtractMode bool) uint16 {
	accOp := readAccumOperand(p)
	memOp, trap := c.readMemoryOperand(addr)
	if trap != 0 {
		return trap
	}

	effectiveSubtract := subtractMode != (accOp.sign != memOp.sign)

	length := len(accOp.digits)
	if len(memOp.digits) > length {
		length = len(memOp.digits)
	}
	for len(accOp.digits) < length {
		accOp.digits = append(accOp.digits, 0)
	}
	for len(memOp.digits) < length {
		memOp.digits = append(memOp.digits, 0)
	}

	carry := uint8(0)
	if effectiveSubtract {
		carry = 1
	}
	zero := true
	for i := 0; i < length; i++ {
		m := memOp.digits[i]
		if effectiveSubtract {
			m = 9 - m
		}
		sum := accOp.digits[i] + m + carry
		carry = sum / 10
		accOp.digits[i] = sum % 10
		if accOp.digits[i] != 0 {
			zero = false
		}
	}

	overflow := false
	if carry != 0 {
		if !effectiveSubtract {
			// Carry out past the last accumulator digit: extend the
			// string by one position and flag overflow.
			accOp.digits = append(accOp.digits, carry)
			overflow = true
		}
	} else if effectiveSubtract {
		zero = recomplement(accOp.digits)
		accOp.sign = !accOp.sign
	}

	if zero {
		accOp.sign = false
	}
	if overflow {
		c.Regs.SetFlag(FlagOverflow)
	}
	writeAccumOperand(p, accOp)
	c.setAccumFlags(zero, accOp.sign)
	return 0
}

// recomplement applies a second 10's-complement pass in place, used
// when a subtraction's first pass produced a borrow rather than a
// carry. Returns whether the result is all-zero.
func recomplement(digits []uint8) bool {
	carry := uint8(1)
	zero := true
	for i := range digits {
		v := (9 - digits[i]) + carry
		carry = v / 10
		digits[i] = v % 10
		if digits[i] != 0 {
			zero = false
		}
	}
	return zero
}

// setAccumFlags updates the A-accumulator zero/sign flags.
func (c *CPU) setAccumFlags(zero, negative bool) {
	c.Regs.ClearFlag(FlagAZero | FlagASign)
	if zero {
		c.Regs.SetFlag(FlagAZero)
	}
	if negative {
		c.Regs.SetFlag(FlagASign)
	}
}

// multiply implements spec.md 4.5's variable-length long multiply: the
// multiplier is the accumulator at p, the multiplicand is the memory
// operand at addr; the partial product builds in the next_half mirror
// of the accumulator window and replaces spc on completion.
func (c *CPU) multiply(p uint16, addr uint32) uint16 {
	multiplier := readAccumOperand(p)
	multiplicand, trap := c.readMemoryOperand(addr)
	if trap != 0 {
		return trap
	}

	product := make([]uint8, len(multiplier.digits)+len(multiplicand.digits)+1)
	for i, md := range multiplier.digits {
		carry := uint8(0)
		for j, nd := range multiplicand.digits {
			prod := product[i+j] + md*nd + carry
			product[i+j] = prod % 10
			carry = prod / 10
		}
		k := i + len(multiplicand.digits)
		for carry != 0 {
			prod := product[k] + carry
			product[k] = prod % 10
			carry = prod / 10
			k++
		}
	}

	dest := accum.NextHalf(p)
	result := operand{sign: multiplier.sign != multiplicand.sign, digits: product}
	if isZero(result) {
		result.sign = false
	}
	writeAccumOperand(dest, result)
	c.Regs.SPC = dest
	c.setAccumFlags(isZero(result), result.sign)
	return 0
}

// divide implements decimal long division of the accumulator at p by
// the memory operand at addr: each dividend digit, most significant
// first, is brought down into a running remainder, and the divisor is
// subtracted until a borrow to give one quotient digit. The quotient
// replaces the accumulator at p; the remainder is not stored.
func (c *CPU) divide(p uint16, addr uint32) uint16 {
	dividend := readAccumOperand(p)
	divisor, trap := c.readMemoryOperand(addr)
	if trap != 0 {
		return trap
	}
	if isZero(divisor) {
		c.Regs.SetFlag(FlagOverflow)
		return 0
	}

	remainder := make([]uint8, len(divisor.digits)+1)
	quotient := make([]uint8, len(dividend.digits))
	for i := len(dividend.digits) - 1; i >= 0; i-- {
		copy(remainder[1:], remainder[:len(remainder)-1])
		remainder[0] = dividend.digits[i]
		digitCount := uint8(0)
		for subtractOnce(remainder, divisor.digits) {
			digitCount++
			if digitCount > 9 {
				c.Regs.SetFlag(FlagOverflow)
				return 0
			}
		}
		quotient[i] = digitCount
	}

	result := operand{sign: dividend.sign != divisor.sign, digits: quotient}
	if isZero(result) {
		result.sign = false
	}
	writeAccumOperand(p, result)
	c.setAccumFlags(isZero(result), result.sign)
	return 0
}

// subtractOnce subtracts divisor from remainder in place (10's
// complement add) and reports whether the result stayed non-negative;
// on a borrow the subtraction is undone and false is returned.
func subtractOnce(remainder []uint8, divisor []uint8) bool {
	trial := append([]uint8(nil), remainder...)
	borrow := uint8(0)
	for i := range trial {
		d := uint8(0)
		if i < len(divisor) {
			d = divisor[i]
		}
		v := int(trial[i]) - int(d) - int(borrow)
		if v < 0 {
			v += 10
			borrow = 1
		} else {
			borrow = 0
		}
		trial[i] = uint8(v)
	}
	if borrow != 0 {
		return false
	}
	copy(remainder, trial)
	return true
}

// shiftRight drags the start pointer forward n positions on next_addr
// and zero-fills behind, per spec.md 4.5.
func shiftRight(p uint16, n int) uint16 {
	for i := 0; i < n; i++ {
		accum.WriteChar(p, digit.BinToBCD[0])
		p = accum.NextAddr(p)
	}
	return p
}

// shiftLeft advances n positions along prev_addr, introducing zero
// digits at the new low end. The string grows by n digits: nothing is
// dropped at the most-significant end and no overflow is raised.
func shiftLeft(p uint16, n int) uint16 {
	for i := 0; i < n; i++ {
		p = accum.PrevAddr(p)
		accum.WriteChar(p, digit.BinToBCD[0])
	}
	return p
}

// round increments the most-significant surviving digit by 5 and
// re-propagates carry through the accumulator string.
func round(p uint16) {
	op := readAccumOperand(p)
	if len(op.digits) == 0 {
		return
	}
	carry := uint8(5)
	i := len(op.digits) - 1
	for carry != 0 && i >= 0 {
		v := op.digits[i] + carry
		carry = v / 10
		op.digits[i] = v % 10
		i--
	}
	if carry != 0 {
		op.digits = append(op.digits, carry)
	}
	writeAccumOperand(p, op)
}

// setLength pads an accumulator with leading (most-significant) zeros
// out to count digits, or truncates to it.
func setLength(p uint16, count int) {
	op := readAccumOperand(p)
	for len(op.digits) < count {
		op.digits = append(op.digits, 0)
	}
	if len(op.digits) > count {
		op.digits = op.digits[:count]
	}
	writeAccumOperand(p, op)
}

// addToMemory implements AAM (spec.md 4.5): reads the four-character
// field at MAC, adds the accumulator digit by digit, rewrites it. The
// fifth and sixth digits (zone-encoded high address bits) participate
// in carry only on 80K/160K, which the caller arranges by choosing the
// field length passed in fieldLen.
func (c *CPU) addToMemory(p uint16, mac uint32, fieldLen int) uint16 {
	accOp := readAccumOperand(p)
	field := make([]uint8, fieldLen)
	addr := mac
	for i := 0; i < fieldLen; i++ {
		ch, flags := memory.ReadChar(addr, FlagMCheck)
		if flags != 0 {
			return flags
		}
		field[i] = digit.ValueOf(ch)
		addr = memory.Wrap(addr + 1)
	}
	carry := uint8(0)
	for i := 0; i < fieldLen; i++ {
		v := field[i] + carry
		if i < len(accOp.digits) {
			v += accOp.digits[i]
		}
		field[i] = v % 10
		carry = v / 10
	}
	if carry != 0 {
		c.Regs.SetFlag(FlagOverflow)
	}
	addr = mac
	for i := 0; i < fieldLen; i++ {
		memory.WriteChar(addr, digit.BinToBCD[field[i]])
		addr = memory.Wrap(addr + 1)
	}
	return 0
}

// loadAddress copies a digits-long memory field at addr into the
// accumulator at p as binary digit values, a stored zero (digit 10)
// becoming 0. It applies no model-dependent zone decoding: on the 160K
// a digit 10 in the high zone adds nothing to the loaded value.
func (c *CPU) loadAddress(p uint16, addr uint32, digits int) uint16 {
	vals := make([]uint8, digits)
	a := addr
	for i := 0; i < digits; i++ {
		ch, flags := memory.ReadChar(a, FlagMCheck)
		if flags != 0 {
			return flags
		}
		v := digit.ValueOf(ch)
		if v == 10 {
			v = 0
			vals[i] = 0
			if i+1 < digits {
				vals[i+1] = 1
			}
		} else {
			vals[i] = v
		}
		a = memory.Wrap(a + 1)
	}
	writeAccumOperand(p, operand{sign: false, digits: vals})
	return 0
}

// unloadAddress is the inverse of loadAddress: it distributes the
// accumulator's digits back into a six-digit memory field and clears
// the low bit(s) given by topClearBits in the top memory digit
// (clearBitsFor: two bits on the 160K, one on every other model).
func (c *CPU) unloadAddress(p uint16, addr uint32, digits int, topClearBits uint8) uint16 {
	op := readAccumOperand(p)
	for len(op.digits) < digits {
		op.digits = append(op.digits, 0)
	}
	a := addr
	for i := 0; i < digits; i++ {
		d := digit.BinToBCD[op.digits[i]]
		if i == digits-1 {
			d &^= topClearBits
		}
		memory.WriteChar(a, d)
		a = memory.Wrap(a + 1)
	}
	return 0
}
