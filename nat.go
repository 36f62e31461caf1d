package tinyrsa

import (
	"strings"
)

// A Digit is one radix-256 digit of a Nat. It is stored in 16 bits so that
// a digit product plus two digits of carry, 255*255 + 255 + 255, still fits
// before being split back into a digit and a carry.
type Digit uint16

const (
	digitBits = 8
	digitMask = 0xff
	maxDigit  = Digit(digitMask)
)

// A Nat is a fixed-width unsigned integer of len(x) radix-256 digits,
//
//	x = x[n-1]*256^(n-1) + ... + x[1]*256 + x[0]
//
// stored least significant digit first. Unlike math/big, a Nat is never
// normalized: its width is part of its type and leading zero digits are kept.
// Every digit is in [0, 256) after any operation returns.
type Nat []Digit

// NewNat returns a zero Nat of the given width.
func NewNat(width int) Nat {
	return make(Nat, width)
}

// NatFromBytes returns a Nat of the given width holding the little-endian
// bytes in b. Missing high digits are zero; b must not be longer than width.
func NatFromBytes(b []byte, width int) Nat {
	if len(b) > width {
		panic("tinyrsa: value wider than Nat")
	}
	z := NewNat(width)
	for i, d := range b {
		z[i] = Digit(d)
	}
	return z
}

// Bytes returns the digits of x as little-endian bytes, one byte per digit.
func (x Nat) Bytes() []byte {
	return x.FillBytes(make([]byte, len(x)))
}

// FillBytes writes the digits of x into buf, least significant first, and
// returns buf. buf must be exactly len(x) bytes long.
func (x Nat) FillBytes(buf []byte) []byte {
	if len(buf) != len(x) {
		panic("tinyrsa: mismatched buffer length")
	}
	for i, d := range x {
		buf[i] = byte(d)
	}
	return buf
}

// String formats x most significant digit first, as "0x" followed by two hex
// characters per digit (leading zero digits included).
func (x Nat) String() string {
	var sb strings.Builder
	sb.Grow(2 + 2*len(x))
	sb.WriteString("0x")
	const hex = "0123456789abcdef"
	for i := len(x) - 1; i >= 0; i-- {
		sb.WriteByte(hex[x[i]>>4&0xf])
		sb.WriteByte(hex[x[i]&0xf])
	}
	return sb.String()
}

func (z Nat) clear() {
	for i := range z {
		z[i] = 0
	}
}

// setOne sets z to 1.
func (z Nat) setOne() {
	z.clear()
	z[0] = 1
}

// set copies x into z. Digits of z above len(x) are cleared.
func (z Nat) set(x Nat) {
	n := copy(z, x)
	z[n:].clear()
}

// window returns the view of k digits of z starting at digit off. The view
// shares storage with z and its capacity is capped at k, so appends can never
// spill into the digits above it.
func (z Nat) window(off, k int) Nat {
	return z[off : off+k : off+k]
}

// top returns the index of the most significant nonzero digit of x, or -1 if
// x is zero.
func (x Nat) top() int {
	i := len(x) - 1
	for i >= 0 && x[i] == 0 {
		i--
	}
	return i
}

// addWindow sets z = z + x over the digits of z and returns the carry out of
// the top digit. x may be shorter than z; its missing digits count as zero.
func addWindow(z, x Nat) (c Digit) {
	if len(x) > len(z) {
		panic("tinyrsa: operand wider than window")
	}
	for i := range z {
		s := z[i] + c
		if i < len(x) {
			s += x[i]
		}
		z[i] = s & digitMask
		c = s >> digitBits
	}
	return c
}

// subWindow sets z = z - x over the digits of z and returns the borrow out of
// the top digit. x may be shorter than z; its missing digits count as zero.
func subWindow(z, x Nat) (b Digit) {
	if len(x) > len(z) {
		panic("tinyrsa: operand wider than window")
	}
	for i := range z {
		y := b
		if i < len(x) {
			y += x[i]
		}
		if z[i] < y {
			z[i] = z[i] + (1 << digitBits) - y
			b = 1
		} else {
			z[i] -= y
			b = 0
		}
	}
	return b
}

// cmpNat compares two views of equal width, most significant digit first,
// and returns -1, 0 or +1.
func cmpNat(x, y Nat) int {
	if len(x) != len(y) {
		panic("tinyrsa: mismatched Nat widths")
	}
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}
