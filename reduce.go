package tinyrsa

// reduce sets the low n.Width() digits of m to m mod n, working in place over
// m one quotient digit at a time (Knuth, TAOCP vol. 2, 4.3.1, Algorithm D).
// The digits of m above the remainder are left zero. qn is scratch space of
// n.Width()+1 digits.
//
// Because the top digit of n is at least 0x80 no scaling step is needed: the
// 2-by-1 estimate of each quotient digit, refined against a 3-by-2 window, is
// never too small and at most one too large. The one-too-large case is fixed
// by adding n back before subtracting q*n.
func reduce(m Nat, n *Modulus, qn Nat) {
	w := n.Width()
	if len(m) < w || len(qn) != w+1 {
		panic("tinyrsa: reduce window has the wrong width")
	}
	nd := n.digits

	// Anything shorter than w digits is below 256^(w-1) and thus below n.
	d0 := m.top()
	if d0 < w-1 {
		return
	}

	// The w digits ending at d0 must be below n before the first quotient
	// digit is estimated. The window is below 256^w <= 2n, so one subtraction
	// is enough.
	hi := m.window(d0-w+1, w)
	if cmpNat(hi, nd) >= 0 {
		subWindow(hi, nd)
	}

	for d := d0; d >= w; d-- {
		// u = m[d-w .. d] is below 256*n, so its quotient by n is one digit.
		u := m.window(d-w, w+1)
		q := estimateQuotient(m[d], m[d-1], m[d-2], n)

		qn[w] = mulDigit(qn, nd, q)
		if cmpNat(qn, u) > 0 {
			// q is one too large; u+n still fits in w+1 digits since u < q*n.
			addWindow(u, nd)
		}
		subWindow(u, qn)
	}
}

// estimateQuotient returns the quotient digit estimate for the window whose
// three leading digits are u0 u1 u2, where u0 <= n's top digit.
func estimateQuotient(u0, u1, u2 Digit, n *Modulus) Digit {
	q := maxDigit
	if u0 != n.ntop {
		// u0 < ntop, so the 2-by-1 quotient fits in one digit.
		q = (u0<<digitBits | u1) / n.ntop
	}
	for q > 0 && greaterThan(mulTop(q, n), u0, u1, u2) {
		q--
	}
	return q
}

// mulTop returns q times the two leading digits of n as three digits, most
// significant first.
func mulTop(q Digit, n *Modulus) [3]Digit {
	p0 := q * n.nsub
	p1 := q*n.ntop + p0>>digitBits
	return [3]Digit{p1 >> digitBits, p1 & digitMask, p0 & digitMask}
}

// greaterThan reports whether the three digit number x exceeds y0 y1 y2.
// Both are given most significant digit first.
func greaterThan(x [3]Digit, y0, y1, y2 Digit) bool {
	switch {
	case x[0] != y0:
		return x[0] > y0
	case x[1] != y1:
		return x[1] > y1
	}
	return x[2] > y2
}
