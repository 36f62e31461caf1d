package tinyrsa

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// A Session encrypts one message into a caller-owned ciphertext buffer one
// block at a time. Between blocks its progress is fully described by State,
// so a host that may lose power can persist the State after each Step and
// later continue with ResumeSession. Blocks already written to the buffer are
// final: each is an independent ciphertext block.
type Session struct {
	enc    *Encryptor
	id     uuid.UUID
	msg    []byte
	dst    []byte
	next   int
	blocks int
}

// NewSession starts encrypting msg into dst, which must hold at least
// enc.CiphertextLen(len(msg)) bytes.
func (e *Encryptor) NewSession(msg, dst []byte) (*Session, error) {
	if need := e.CiphertextLen(len(msg)); len(dst) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, need, len(dst))
	}
	return &Session{
		enc:    e,
		id:     uuid.New(),
		msg:    msg,
		dst:    dst,
		blocks: BlockCount(len(msg), e.BlockSize()),
	}, nil
}

// ResumeSession continues the session described by st. msg must be the same
// message and dst must still hold the blocks written before st was taken.
func (e *Encryptor) ResumeSession(st *State, msg, dst []byte) (*Session, error) {
	if err := st.matches(e.params, len(msg)); err != nil {
		return nil, err
	}
	s, err := e.NewSession(msg, dst)
	if err != nil {
		return nil, err
	}
	if st.NextBlock < 0 || st.NextBlock > s.blocks {
		return nil, fmt.Errorf("%w: block %d of %d", ErrStateMismatch, st.NextBlock, s.blocks)
	}
	s.id = st.Session
	s.next = st.NextBlock
	return s, nil
}

// ID identifies the session across checkpoints.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Blocks returns the total number of blocks in the message.
func (s *Session) Blocks() int {
	return s.blocks
}

// Next returns the index of the next block to encrypt.
func (s *Session) Next() int {
	return s.next
}

// Done reports whether every block has been written.
func (s *Session) Done() bool {
	return s.next >= s.blocks
}

// Step encrypts the next block and reports whether one was processed.
func (s *Session) Step() bool {
	if s.Done() {
		return false
	}
	s.enc.encryptBlock(s.next, s.dst, s.msg)
	s.next++
	return true
}

// Run encrypts every remaining block and returns the ciphertext length.
func (s *Session) Run() int {
	for s.Step() {
	}
	return s.blocks * s.enc.Width()
}

// State returns a snapshot of the session at the current block boundary.
func (s *Session) State() State {
	p := s.enc.params
	return State{
		Session:    s.id,
		NextBlock:  s.next,
		MessageLen: len(s.msg),
		Width:      p.Width,
		Pad:        append([]byte(nil), p.Pad...),
		Filler:     p.Filler,
		Exponent:   p.Key.E,
		Modulus:    p.Key.N.Bytes(),
	}
}

// matches reports whether st was taken from a session with the same
// configuration and message length.
func (st *State) matches(p Params, msgLen int) error {
	switch {
	case st.Width != p.Width:
		return fmt.Errorf("%w: width %d, want %d", ErrStateMismatch, st.Width, p.Width)
	case !bytes.Equal(st.Modulus, p.Key.N.Bytes()) || st.Exponent != p.Key.E:
		return fmt.Errorf("%w: different key", ErrStateMismatch)
	case !bytes.Equal(st.Pad, p.Pad) || st.Filler != p.Filler:
		return fmt.Errorf("%w: different block layout", ErrStateMismatch)
	case st.MessageLen != msgLen:
		return fmt.Errorf("%w: message length %d, want %d", ErrStateMismatch, msgLen, st.MessageLen)
	}
	return nil
}
