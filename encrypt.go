package tinyrsa

import (
	"context"
	"fmt"

	"github.com/bastionzero/tinyrsa/logging"
)

// An Encryptor encrypts messages block by block under one public key. It owns
// the scratch buffers for its width, so it must not be used by more than one
// goroutine at a time.
type Encryptor struct {
	params  Params
	scratch *Scratch
	block   Nat
	out     Nat
	log     logging.Logger
}

// Option configures an Encryptor.
type Option func(*Encryptor)

// WithLogger sends trace records to l. Tracing never changes the ciphertext.
func WithLogger(l logging.Logger) Option {
	return func(e *Encryptor) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEncryptor validates params and allocates the working buffers. Invalid
// configurations are rejected here, before any block is processed.
func NewEncryptor(params Params, opts ...Option) (*Encryptor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	w := params.Width
	e := &Encryptor{
		params:  params.clone(),
		scratch: NewScratch(w),
		block:   NewNat(w),
		out:     NewNat(w),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	ctx := context.Background()
	if e.log.Enabled(ctx) {
		e.log.Debug(ctx, "encryptor ready",
			"op", "setup",
			"width", w,
			"modulus", params.Key.N.String(),
			"exponent", fmt.Sprintf("0x%x", params.Key.E))
	}
	return e, nil
}

// Params returns a copy of the configuration of e.
func (e *Encryptor) Params() Params {
	return e.params.clone()
}

// Width returns the block width in digits, which is also the number of
// ciphertext bytes per block.
func (e *Encryptor) Width() int {
	return e.params.Width
}

// BlockSize returns the number of message bytes carried by one block.
func (e *Encryptor) BlockSize() int {
	return e.params.BlockSize()
}

// CiphertextLen returns the ciphertext length for a message of msgLen bytes.
func (e *Encryptor) CiphertextLen(msgLen int) int {
	return CiphertextLen(msgLen, e.params.Width, len(e.params.Pad))
}

// Encrypt returns the ciphertext of msg.
func (e *Encryptor) Encrypt(msg []byte) []byte {
	dst := make([]byte, e.CiphertextLen(len(msg)))
	// dst is sized exactly, so EncryptTo cannot fail
	_, _ = e.EncryptTo(dst, msg)
	return dst
}

// EncryptTo writes the ciphertext of msg into dst and returns the number of
// bytes written. dst must hold at least CiphertextLen(len(msg)) bytes.
func (e *Encryptor) EncryptTo(dst, msg []byte) (int, error) {
	n := e.CiphertextLen(len(msg))
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, n, len(dst))
	}
	for i := 0; i < BlockCount(len(msg), e.BlockSize()); i++ {
		e.encryptBlock(i, dst, msg)
	}
	return n, nil
}

// EncryptBlock encrypts a single chunk of at most BlockSize bytes into dst,
// which must be exactly Width bytes long.
func (e *Encryptor) EncryptBlock(dst, chunk []byte) {
	if len(chunk) > e.BlockSize() || len(dst) != e.Width() {
		panic("tinyrsa: block has the wrong size")
	}
	e.params.pack(e.block, chunk, e.params.Filler)
	e.scratch.ModExp(e.out, e.block, e.params.Key.E, e.params.Key.N)
	e.out.FillBytes(dst)
}

// encryptBlock encrypts block i of msg into its slot of dst.
func (e *Encryptor) encryptBlock(i int, dst, msg []byte) {
	bs, w := e.BlockSize(), e.Width()
	lo := i * bs
	hi := lo + bs
	if hi > len(msg) {
		hi = len(msg)
	}
	e.EncryptBlock(dst[i*w:(i+1)*w], msg[lo:hi])

	ctx := context.Background()
	if e.log.Enabled(ctx) {
		e.log.Debug(ctx, "block encrypted",
			"op", "modexp",
			"block", i,
			"in", e.block.String(),
			"out", e.out.String())
	}
}
