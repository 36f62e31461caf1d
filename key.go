package tinyrsa

import (
	"fmt"
)

const normalizedTop = 0x80

// A Modulus is an RSA modulus in digit form. Its width is at least two digits
// and its top digit is at least 0x80, which keeps every quotient digit
// estimate in reduce within one of the true value. A Modulus is immutable.
type Modulus struct {
	digits Nat
	// the two leading digits, used by the quotient estimate
	ntop, nsub Digit
}

// NewModulus returns the modulus whose little-endian digits are given in b.
// The width of the modulus is len(b).
func NewModulus(b []byte) (*Modulus, error) {
	if len(b) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrWidthTooSmall, len(b))
	}
	if b[len(b)-1] < normalizedTop {
		return nil, fmt.Errorf("%w: got 0x%02x", ErrModulusNotNormalized, b[len(b)-1])
	}

	w := len(b)
	digits := NatFromBytes(b, w)
	return &Modulus{
		digits: digits,
		ntop:   digits[w-1],
		nsub:   digits[w-2],
	}, nil
}

// Width returns the number of digits in m.
func (m *Modulus) Width() int {
	return len(m.digits)
}

// Nat returns a copy of the digits of m.
func (m *Modulus) Nat() Nat {
	z := NewNat(len(m.digits))
	copy(z, m.digits)
	return z
}

// Bytes returns the little-endian digits of m.
func (m *Modulus) Bytes() []byte {
	return m.digits.Bytes()
}

func (m *Modulus) String() string {
	return m.digits.String()
}

// A PublicKey is a provisioned RSA public key. It is read-only once built.
type PublicKey struct {
	N *Modulus // modulus
	E uint64   // public exponent
}

// NewPublicKey builds a public key from little-endian modulus digits and an
// exponent, rejecting moduli that are too narrow or not normalized.
func NewPublicKey(n []byte, e uint64) (PublicKey, error) {
	m, err := NewModulus(n)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{N: m, E: e}, nil
}

// Width returns the block width of the key, in digits.
func (k PublicKey) Width() int {
	if k.N == nil {
		return 0
	}
	return k.N.Width()
}
