package tinyrsa

import (
	"fmt"
)

// DefaultPad is the pad digit placed above the message bytes of every block.
// Being below 0x80 it keeps every padded block below a normalized modulus.
var DefaultPad = []byte{0x01}

// DefaultFiller fills the digits past the end of a short final block.
const DefaultFiller = 0xff

// Params is the immutable configuration of an Encryptor.
type Params struct {
	// Width is the block width in digits and must equal the key width.
	Width int
	// Pad holds the pad digits, least significant first. They occupy the top
	// len(Pad) digits of each block, leaving Width-len(Pad) for message bytes.
	Pad []byte
	// Filler is written into the message digits past the end of the message.
	Filler byte
	Key    PublicKey
}

// DefaultParams returns the block layout used by the reference encryptor:
// a single 0x01 pad digit and 0xff filler.
func DefaultParams(key PublicKey) Params {
	return Params{
		Width:  key.Width(),
		Pad:    append([]byte(nil), DefaultPad...),
		Filler: DefaultFiller,
		Key:    key,
	}
}

// BlockSize returns the number of message bytes carried by one block.
func (p Params) BlockSize() int {
	return p.Width - len(p.Pad)
}

// Validate checks that p describes a usable block layout: the key is
// present and well formed, the widths agree, and no padded block can reach
// the modulus.
func (p Params) Validate() error {
	n := p.Key.N
	if n == nil {
		return fmt.Errorf("%w: no modulus", ErrWidthTooSmall)
	}
	if n.Width() < 2 {
		return fmt.Errorf("%w: got %d", ErrWidthTooSmall, n.Width())
	}
	if n.ntop < normalizedTop {
		return fmt.Errorf("%w: got 0x%02x", ErrModulusNotNormalized, n.ntop)
	}
	if p.Width != n.Width() {
		return fmt.Errorf("%w: width %d, key width %d", ErrWidthMismatch, p.Width, n.Width())
	}
	if p.BlockSize() < 1 {
		return fmt.Errorf("%w: %d pad digits leave no room for message bytes", ErrPadTooLarge, len(p.Pad))
	}

	// the largest block is every message digit at 0xff under the pad
	largest := p.pack(NewNat(p.Width), nil, 0xff)
	if cmpNat(largest, n.digits) >= 0 {
		return fmt.Errorf("%w: largest block %s, modulus %s", ErrPadTooLarge, largest, n)
	}
	return nil
}

// pack writes chunk into the low digits of z, filler into the remaining
// message digits and the pad digits on top, and returns z.
func (p Params) pack(z Nat, chunk []byte, filler byte) Nat {
	bs := p.BlockSize()
	for i := 0; i < bs; i++ {
		if i < len(chunk) {
			z[i] = Digit(chunk[i])
		} else {
			z[i] = Digit(filler)
		}
	}
	for j, d := range p.Pad {
		z[bs+j] = Digit(d)
	}
	return z
}

func (p Params) clone() Params {
	p.Pad = append([]byte(nil), p.Pad...)
	return p
}

// BlockCount returns the number of blocks needed for msgLen message bytes
// at blockSize bytes per block.
func BlockCount(msgLen, blockSize int) int {
	return (msgLen + blockSize - 1) / blockSize
}

// CiphertextLen returns the ciphertext length for msgLen message bytes with
// blocks of width digits, padLen of which are pad digits.
func CiphertextLen(msgLen, width, padLen int) int {
	return BlockCount(msgLen, width-padLen) * width
}
