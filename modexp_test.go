package tinyrsa

import (
	"math/big"
	mrand "math/rand"

	"github.com/cronokirby/safenum"
	"github.com/holiman/uint256"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// bigEndian returns the digits of x most significant first
func bigEndian(x Nat) []byte {
	b := x.Bytes()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

var _ = Describe("Modular arithmetic", func() {
	var r *mrand.Rand

	BeforeEach(func() {
		r = mrand.New(mrand.NewSource(GinkgoRandomSeed()))
	})

	Context("Modular multiplication", func() {
		It("Agrees with uint256 MulMod", func() {
			for i := 0; i < 200; i++ {
				w := 2 + r.Intn(31)
				n := randModulus(r, w)
				a, b := randNat(r, w), randNat(r, w)
				s := NewScratch(w)
				z := NewNat(w)
				s.ModMul(z, a, b, n)

				x, _ := uint256.FromBig(natToBig(a))
				y, _ := uint256.FromBig(natToBig(b))
				m, _ := uint256.FromBig(natToBig(n.digits))
				want := new(uint256.Int).MulMod(x, y, m)
				Expect(natToBig(z).Cmp(want.ToBig())).To(Equal(0), "%v * %v mod %v", a, b, n)
			}
		})

		It("Allows the result to alias both operands", func() {
			n := randModulus(r, 6)
			a := randNat(r, 6)
			want := new(big.Int).Mul(natToBig(a), natToBig(a))
			want.Mod(want, natToBig(n.digits))

			s := NewScratch(6)
			s.ModMul(a, a, a, n)
			Expect(natToBig(a).Cmp(want)).To(Equal(0))
		})

		It("Composes the exported multiplier and reducer", func() {
			n := randModulus(r, 5)
			a, b := randNat(r, 5), randNat(r, 5)
			s := NewScratch(5)

			prod := NewNat(10)
			s.Mul(prod, a, b)
			s.Reduce(prod, n)

			z := NewNat(5)
			s.ModMul(z, a, b, n)
			Expect(prod[:5]).To(Equal(z))
		})

		It("Rejects operands sized for another modulus", func() {
			s := NewScratch(4)
			n := randModulus(r, 5)
			Expect(func() { s.ModMul(NewNat(5), NewNat(5), NewNat(5), n) }).To(Panic())
		})

		It("Rejects products and dividends sized for another scratch", func() {
			s := NewScratch(4)
			Expect(func() { s.Mul(NewNat(10), NewNat(5), NewNat(5)) }).To(Panic())
			Expect(func() { s.Mul(NewNat(8), NewNat(4), NewNat(3)) }).To(Panic())
			Expect(func() { s.Reduce(NewNat(10), randModulus(r, 5)) }).To(Panic())
			Expect(func() { s.Mul(NewNat(8), NewNat(4), NewNat(4)) }).NotTo(Panic())
		})
	})

	Context("Modular exponentiation", func() {
		It("Returns 1 for a zero exponent", func() {
			for i := 0; i < 50; i++ {
				w := 2 + r.Intn(10)
				n := randModulus(r, w)
				z := NewNat(w)
				NewScratch(w).ModExp(z, randNat(r, w), 0, n)

				want := NewNat(w)
				want.setOne()
				Expect(z).To(Equal(want))
			}
		})

		It("Returns x mod n for an exponent of 1", func() {
			for i := 0; i < 50; i++ {
				w := 2 + r.Intn(10)
				n := randModulus(r, w)
				x := randNat(r, w)
				z := NewNat(w)
				NewScratch(w).ModExp(z, x, 1, n)

				want := new(big.Int).Mod(natToBig(x), natToBig(n.digits))
				Expect(natToBig(z).Cmp(want)).To(Equal(0))
			}
		})

		It("Satisfies x^(a+b) = x^a * x^b mod n", func() {
			for i := 0; i < 50; i++ {
				w := 2 + r.Intn(12)
				n := randModulus(r, w)
				x := randNat(r, w)
				a, b := uint64(r.Int63n(1<<31)), uint64(r.Int63n(1<<31))
				s := NewScratch(w)

				xa, xb, xab := NewNat(w), NewNat(w), NewNat(w)
				s.ModExp(xa, x, a, n)
				s.ModExp(xb, x, b, n)
				s.ModExp(xab, x, a+b, n)

				prod := NewNat(w)
				s.ModMul(prod, xa, xb, n)
				Expect(prod).To(Equal(xab))
			}
		})

		It("Agrees with safenum", func() {
			for i := 0; i < 50; i++ {
				w := 2 + r.Intn(40)
				n := randOddModulus(r, w)
				x := randNat(r, w)
				e := r.Uint64()
				z := NewNat(w)
				NewScratch(w).ModExp(z, x, e, n)

				m := safenum.ModulusFromBytes(bigEndian(n.digits))
				base := new(safenum.Nat).SetBytes(bigEndian(x))
				exp := new(safenum.Nat).SetUint64(e)
				want := new(safenum.Nat).Exp(base, exp, m)
				Expect(natToBig(z).Cmp(want.Big())).To(Equal(0), "%v^%d mod %v", x, e, n)
			}
		})

		It("Agrees with big.Int for even moduli", func() {
			for i := 0; i < 50; i++ {
				w := 2 + r.Intn(40)
				b := make([]byte, w)
				r.Read(b)
				b[w-1] |= normalizedTop
				b[0] &^= 1
				n := mustModulus(b)
				x := randNat(r, w)
				e := r.Uint64()
				z := NewNat(w)
				NewScratch(w).ModExp(z, x, e, n)

				want := new(big.Int).Exp(natToBig(x), new(big.Int).SetUint64(e), natToBig(n.digits))
				Expect(natToBig(z).Cmp(want)).To(Equal(0), "%v^%d mod %v", x, e, n)
			}
		})

		It("Agrees with big.Int for the largest exponent", func() {
			n := randModulus(r, 16)
			x := randNat(r, 16)
			z := NewNat(16)
			NewScratch(16).ModExp(z, x, ^uint64(0), n)

			want := new(big.Int).Exp(natToBig(x), new(big.Int).SetUint64(^uint64(0)), natToBig(n.digits))
			Expect(natToBig(z).Cmp(want)).To(Equal(0))
		})

		It("Reproduces the worked 4-digit example", func() {
			// modulus 0x80496001 and padded block 0x01ef3d55, both least significant digit first
			n, err := NewModulus([]byte{0x01, 0x60, 0x49, 0x80})
			Expect(err).To(BeNil())
			x := Nat{0x55, 0x3d, 0xef, 0x01}
			z := NewNat(4)
			NewScratch(4).ModExp(z, x, 0x11, n)

			want := new(big.Int).Exp(big.NewInt(0x01ef3d55), big.NewInt(0x11), big.NewInt(0x80496001))
			Expect(natToBig(z).Cmp(want)).To(Equal(0))
			Expect(z).To(Equal(Nat{0x38, 0x49, 0x37, 0x4b}))
		})

		It("Leaves the base untouched unless it is also the result", func() {
			n := randModulus(r, 4)
			x := randNat(r, 4)
			orig := append(Nat(nil), x...)
			NewScratch(4).ModExp(NewNat(4), x, 65537, n)
			Expect(x).To(Equal(orig))
		})
	})
})
