package tinyrsa

import (
	"bytes"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const pemType = "TINYRSA SESSION STATE"

// A State is the checkpoint of a Session taken between two blocks. It is a
// plain record: everything needed to resume is held by value, and the
// ciphertext written so far lives in the caller's buffer.
type State struct {
	Session    uuid.UUID // session the state belongs to
	NextBlock  int       // index of the next block to encrypt
	MessageLen int       // length of the message being encrypted
	Width      int       // block width in digits
	Pad        []byte    // pad digits, least significant first
	Filler     byte      // filler for the short final block
	Exponent   uint64    // public exponent
	Modulus    []byte    // modulus digits, least significant first
}

// used exclusively as a placeholder for encoding-decoding
type state struct {
	Session    []byte
	NextBlock  int
	MessageLen int
	Width      int
	Pad        []byte
	Filler     int
	Exponent   *big.Int
	Modulus    []byte
}

// MarshalBinary returns the DER encoding of st.
func (st *State) MarshalBinary() ([]byte, error) {
	// we perform this conversion because asn1.Marshal cannot handle uint64 or fixed-size arrays
	b, err := asn1.Marshal(state{
		Session:    st.Session[:],
		NextBlock:  st.NextBlock,
		MessageLen: st.MessageLen,
		Width:      st.Width,
		Pad:        st.Pad,
		Filler:     int(st.Filler),
		Exponent:   new(big.Int).SetUint64(st.Exponent),
		Modulus:    st.Modulus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to DER-encode session state: %w", err)
	}
	return b, nil
}

// UnmarshalBinary decodes a DER encoding produced by MarshalBinary.
func (st *State) UnmarshalBinary(data []byte) error {
	var s state
	rest, err := asn1.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("failed to unmarshal DER-encoded session state: %w", err)
	} else if len(rest) > 0 {
		return fmt.Errorf("failed to unmarshal DER-encoded session state: %d trailing bytes", len(rest))
	}

	id, err := uuid.FromBytes(s.Session)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	if s.Exponent == nil || s.Exponent.Sign() < 0 || !s.Exponent.IsUint64() {
		return fmt.Errorf("invalid exponent in session state")
	}
	if s.Filler < 0 || s.Filler > 0xff {
		return fmt.Errorf("invalid filler 0x%x in session state", s.Filler)
	}

	*st = State{
		Session:    id,
		NextBlock:  s.NextBlock,
		MessageLen: s.MessageLen,
		Width:      s.Width,
		Pad:        s.Pad,
		Filler:     byte(s.Filler),
		Exponent:   s.Exponent.Uint64(),
		Modulus:    s.Modulus,
	}
	return nil
}

// EncodePEM returns a PEM encoding of the state.
func (st *State) EncodePEM() (string, error) {
	b, err := st.MarshalBinary()
	if err != nil {
		return "", err
	}

	statePEM := new(bytes.Buffer)
	err = pem.Encode(statePEM, &pem.Block{
		Type:  pemType,
		Bytes: b,
	})
	if err != nil {
		return "", fmt.Errorf("failed to PEM-encode: %w", err)
	}

	return statePEM.String(), nil
}

// DecodeState returns the state held in a PEM encoding made by EncodePEM.
func DecodeState(encoded string) (*State, error) {
	block, rest := pem.Decode([]byte(encoded))
	if block == nil || block.Type != pemType || len(bytes.TrimSpace(rest)) > 0 {
		return nil, fmt.Errorf("failed to decode PEM block containing session state")
	}

	st := new(State)
	if err := st.UnmarshalBinary(block.Bytes); err != nil {
		return nil, err
	}
	return st, nil
}
