package tinyrsa

// addMulDigit sets z = z + x*d over len(x) digits of z and returns the carry
// digit. Each step forms at most 255*255 + 255 + 255, which fits in a Digit.
func addMulDigit(z, x Nat, d Digit) (c Digit) {
	for i, a := range x {
		t := a*d + z[i] + c
		z[i] = t & digitMask
		c = t >> digitBits
	}
	return c
}

// mulDigit sets z[:len(x)] = x*d and returns the carry digit.
func mulDigit(z, x Nat, d Digit) (c Digit) {
	for i, a := range x {
		t := a*d + c
		z[i] = t & digitMask
		c = t >> digitBits
	}
	return c
}

// mul sets z = x*y using schoolbook multiplication. z must be exactly
// len(x)+len(y) digits wide and must not alias x or y.
func mul(z, x, y Nat) {
	if len(z) != len(x)+len(y) {
		panic("tinyrsa: product window has the wrong width")
	}
	z.clear()
	for i, d := range y {
		if d == 0 {
			continue
		}
		// z[i+len(x)] has not been touched by the rows below i
		z[i+len(x)] = addMulDigit(z.window(i, len(x)), x, d)
	}
}
