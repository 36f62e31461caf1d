package tinyrsa

// Scratch holds the working buffers of the modular operations for one width.
// It is allocated once per encryption session and reused for every block and
// every exponent bit; all of its state is flat digit storage.
type Scratch struct {
	prod Nat // double-width product, reduced in place
	qn   Nat // q*n for one quotient digit
	base Nat // running square
	acc  Nat // running result
}

// NewScratch allocates the buffers for moduli of the given width.
func NewScratch(width int) *Scratch {
	buf := make(Nat, 2*width+(width+1)+2*width)
	return &Scratch{
		prod: buf.window(0, 2*width),
		qn:   buf.window(2*width, width+1),
		base: buf.window(3*width+1, width),
		acc:  buf.window(4*width+1, width),
	}
}

// Width returns the modulus width the buffers are sized for.
func (s *Scratch) Width() int {
	return len(s.base)
}

func (s *Scratch) check(n *Modulus, xs ...Nat) {
	if n.Width() != s.Width() {
		panic("tinyrsa: scratch sized for a different modulus")
	}
	s.checkOperands(xs...)
}

func (s *Scratch) checkOperands(xs ...Nat) {
	w := s.Width()
	for _, x := range xs {
		if len(x) != w {
			panic("tinyrsa: operand has the wrong width")
		}
	}
}

// Mul sets z = a*b without reduction. a and b must have the scratch width, z
// twice that, and z must not alias a or b.
func (s *Scratch) Mul(z, a, b Nat) {
	s.checkOperands(a, b)
	mul(z, a, b)
}

// Reduce sets the low digits of m, which is twice the modulus width, to
// m mod n.
func (s *Scratch) Reduce(m Nat, n *Modulus) {
	s.check(n)
	if len(m) != 2*n.Width() {
		panic("tinyrsa: reduce operand has the wrong width")
	}
	reduce(m, n, s.qn)
}

// ModMul sets z = a*b mod n. z may alias a or b.
func (s *Scratch) ModMul(z, a, b Nat, n *Modulus) {
	s.check(n, z, a, b)
	mul(s.prod, a, b)
	reduce(s.prod, n, s.qn)
	copy(z, s.prod[:len(z)])
}

// ModExp sets z = x^e mod n by right-to-left square-and-multiply. It runs
// exactly bits.Len64(e) iterations. z may alias x.
func (s *Scratch) ModExp(z, x Nat, e uint64, n *Modulus) {
	s.check(n, z, x)
	s.base.set(x)
	s.acc.setOne()
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			s.ModMul(s.acc, s.acc, s.base, n)
		}
		s.ModMul(s.base, s.base, s.base, n)
	}
	z.set(s.acc)
}
