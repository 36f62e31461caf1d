package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastionzero/tinyrsa"
	"github.com/bastionzero/tinyrsa/keyfile"
	"github.com/urfave/cli/v2"
)

func Encrypt(cCtx *cli.Context) error {
	log := newLogger(cCtx)
	ctx := context.Background()

	params, err := paramsFromFlags(cCtx)
	if err != nil {
		return err
	}
	enc, err := tinyrsa.NewEncryptor(params, tinyrsa.WithLogger(log))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msg, err := os.ReadFile(cCtx.String("in"))
	if err != nil {
		return fmt.Errorf("failed to read plaintext: %w", err)
	}

	outPath := cCtx.String("out")
	out, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer out.Close()

	dst := make([]byte, enc.CiphertextLen(len(msg)))
	session, err := openSession(enc, cCtx.String("checkpoint"), msg, dst, out)
	if err != nil {
		return err
	}
	if session.Next() > 0 {
		log.Info(ctx, "resuming", "session", session.ID(), "block", session.Next(), "blocks", session.Blocks())
	}

	w := enc.Width()
	for session.Step() {
		i := session.Next() - 1
		if _, err := out.WriteAt(dst[i*w:(i+1)*w], int64(i*w)); err != nil {
			return fmt.Errorf("failed to write block %d: %w", i, err)
		}
		if err := saveCheckpoint(cCtx.String("checkpoint"), session, out); err != nil {
			return err
		}
	}

	if err := out.Truncate(int64(len(dst))); err != nil {
		return fmt.Errorf("failed to truncate output file: %w", err)
	}
	if path := cCtx.String("checkpoint"); path != "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove checkpoint: %w", err)
		}
	}

	log.Info(ctx, "encrypted", "blocks", session.Blocks(), "bytes", len(dst), "out", outPath)
	return nil
}

func paramsFromFlags(cCtx *cli.Context) (tinyrsa.Params, error) {
	key, err := keyfile.Load(cCtx.String("key"))
	if err != nil {
		return tinyrsa.Params{}, err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return tinyrsa.Params{}, fmt.Errorf("key is not usable: %w", err)
	}

	pad, err := hex.DecodeString(cCtx.String("pad"))
	if err != nil {
		return tinyrsa.Params{}, fmt.Errorf("invalid pad digits: %w", err)
	}
	filler := cCtx.Uint("filler")
	if filler > 0xff {
		return tinyrsa.Params{}, fmt.Errorf("filler 0x%x is not a byte", filler)
	}

	params := tinyrsa.DefaultParams(pub)
	params.Pad = pad
	params.Filler = byte(filler)
	return params, nil
}

// openSession resumes from the checkpoint if one exists, reloading the blocks
// already written to out into dst. Otherwise it starts a new session.
func openSession(enc *tinyrsa.Encryptor, checkpoint string, msg, dst []byte, out *os.File) (*tinyrsa.Session, error) {
	if checkpoint == "" {
		return enc.NewSession(msg, dst)
	}

	encoded, err := os.ReadFile(checkpoint)
	if errors.Is(err, os.ErrNotExist) {
		return enc.NewSession(msg, dst)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	st, err := tinyrsa.DecodeState(string(encoded))
	if err != nil {
		return nil, err
	}
	session, err := enc.ResumeSession(st, msg, dst)
	if err != nil {
		return nil, err
	}

	done := dst[:st.NextBlock*enc.Width()]
	if _, err := out.ReadAt(done, 0); err != nil && !(errors.Is(err, io.EOF) && len(done) == 0) {
		return nil, fmt.Errorf("failed to reload %d encrypted blocks: %w", st.NextBlock, err)
	}
	return session, nil
}

// saveCheckpoint persists the session state once its latest block is on disk.
func saveCheckpoint(path string, session *tinyrsa.Session, out *os.File) error {
	if path == "" {
		return nil
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	st := session.State()
	encoded, err := st.EncodePEM()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(encoded), 0600); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}
