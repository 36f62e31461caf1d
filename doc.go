/*
Package tinyrsa implements textbook RSA encryption over fixed-width, radix-256 integers

# Overview

tinyrsa is built for targets without wide multiply or divide hardware: every integer is a fixed number of
8-bit digits, and every operation is composed of digit products and carry or borrow propagation.
The engine is layered, leaf first:

  - digit windows: add and subtract with carry/borrow over a view of a wider accumulator
  - multiplier: schoolbook product of two W-digit numbers into 2W digits
  - reducer: 2W digits mod a W-digit modulus, one quotient digit at a time (Knuth's Algorithm D)
  - modular multiplier and square-and-multiply exponentiator
  - block codec: message bytes into padded blocks, one modular exponentiation per block

# Keys and parameters

A key is provisioned, never generated here. The modulus digits are given least significant first and
the top digit must be at least 0x80:

	key, err := tinyrsa.NewPublicKey([]byte{0x01, 0x60, 0x49, 0x80}, 0x11)
	enc, err := tinyrsa.NewEncryptor(tinyrsa.DefaultParams(key))
	ciphertext := enc.Encrypt([]byte("hello"))

Each block carries Width-len(Pad) message bytes under the pad digits. A short final block is completed
with the Filler byte (0xff by default). The ciphertext is Width bytes per block, least significant
digit first, blocks in message order.

Every configuration problem (narrow or unnormalized modulus, pad digits that could lift a block to the
modulus, mismatched widths) is reported by NewEncryptor. Once an Encryptor exists, encryption cannot fail.

# Power-interrupted encryption

A [Session] encrypts one block per Step. Between steps its [State] is a flat record that can be
encoded with [State.EncodePEM], stored, and handed to [Encryptor.ResumeSession] after a restart.

# Not provided

Decryption, key generation, arbitrary precision and constant-time execution are out of scope.
This is textbook RSA with a fixed pad, not PKCS #1; do not use it to protect real data.

# Sources

	[1] D. E. Knuth, The Art of Computer Programming, vol. 2, section 4.3.1
*/
package tinyrsa
