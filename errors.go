package tinyrsa

import "errors"

// Configuration errors. They are returned once, when a key, Params, Encryptor
// or Session is constructed; the arithmetic itself has no failure modes.
var (
	ErrWidthTooSmall        = errors.New("tinyrsa: modulus must be at least 2 digits wide")
	ErrModulusNotNormalized = errors.New("tinyrsa: modulus top digit must be at least 0x80")
	ErrPadTooLarge          = errors.New("tinyrsa: padded block may not be smaller than the modulus")
	ErrWidthMismatch        = errors.New("tinyrsa: block width does not match the key")
	ErrBufferTooSmall       = errors.New("tinyrsa: ciphertext buffer too small")
	ErrStateMismatch        = errors.New("tinyrsa: session state does not match this encryption")
)
