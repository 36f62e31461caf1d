package tinyrsa

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

var bigOne = big.NewInt(1)

// natToBig returns the value of x as a big.Int
func natToBig(x Nat) *big.Int {
	b := make([]byte, len(x))
	for i, d := range x {
		b[len(x)-1-i] = byte(d)
	}
	return new(big.Int).SetBytes(b)
}

// bigToNat returns v as a Nat of the given width; v must fit
func bigToNat(v *big.Int, width int) Nat {
	b := v.Bytes()
	if len(b) > width {
		panic("value does not fit")
	}
	z := NewNat(width)
	for i, d := range b {
		z[len(b)-1-i] = Digit(d)
	}
	return z
}

func randNat(r *mrand.Rand, width int) Nat {
	z := NewNat(width)
	for i := range z {
		z[i] = Digit(r.Intn(256))
	}
	return z
}

func randModulus(r *mrand.Rand, width int) *Modulus {
	b := make([]byte, width)
	r.Read(b)
	b[width-1] |= normalizedTop
	return mustModulus(b)
}

// randOddModulus is for oracles built on Montgomery reduction, which need an
// odd modulus.
func randOddModulus(r *mrand.Rand, width int) *Modulus {
	b := make([]byte, width)
	r.Read(b)
	b[width-1] |= normalizedTop
	b[0] |= 1
	return mustModulus(b)
}

func mustModulus(b []byte) *Modulus {
	n, err := NewModulus(b)
	if err != nil {
		panic(err)
	}
	return n
}

// check that n divides (a - b)
func congruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}

// calculate the Euler totient of n using its prime factors, however many there are
func eulerTotient(primes []*big.Int) *big.Int {
	// phi <- (p[0] - 1) * (p[1] - 1) * ...
	phi := big.NewInt(1)
	for _, p := range primes {
		pm1 := new(big.Int).Sub(p, bigOne)
		phi.Mul(phi, pm1)
	}
	return phi
}

// testKey is a public key with its private exponent, used only as an oracle
type testKey struct {
	pub PublicKey
	n   *big.Int
	d   *big.Int
}

// newTestKey generates a two-prime key whose modulus is exactly width digits
// wide with the top bit set. width must be even and at least 4.
func newTestKey(width int, e uint64) testKey {
	bigE := new(big.Int).SetUint64(e)
	for {
		// crypto/rand.Prime sets the top two bits, so p*q has exactly 8*width bits
		p, err := crand.Prime(crand.Reader, 4*width)
		if err != nil {
			panic(err)
		}
		q, err := crand.Prime(crand.Reader, 4*width)
		if err != nil {
			panic(err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		phi := eulerTotient([]*big.Int{p, q})
		d := new(big.Int).ModInverse(bigE, phi)
		if d == nil {
			continue
		}

		n := new(big.Int).Mul(p, q)
		pub, err := NewPublicKey(bigToNat(n, width).Bytes(), e)
		if err != nil {
			panic(err)
		}
		return testKey{pub: pub, n: n, d: d}
	}
}

// decrypt performs an RSA decryption of one ciphertext block, returning the
// plaintext block digits
func (k testKey) decrypt(block []byte) Nat {
	w := k.pub.Width()
	c := natToBig(NatFromBytes(block, w))
	m := new(big.Int).Exp(c, k.d, k.n)
	return bigToNat(m, w)
}

// decryptMessage reverses Encrypt, returning the message padded with filler
// up to a whole number of blocks
func (k testKey) decryptMessage(ciphertext []byte, padLen int) []byte {
	w := k.pub.Width()
	var msg []byte
	for i := 0; i+w <= len(ciphertext); i += w {
		block := k.decrypt(ciphertext[i : i+w])
		msg = append(msg, block[:w-padLen].Bytes()...)
	}
	return msg
}
