package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/bastionzero/tinyrsa"
	"github.com/bastionzero/tinyrsa/keyfile"
	"github.com/bastionzero/tinyrsa/logging"
	"github.com/urfave/cli/v2"
)

var keyFlag = &cli.StringFlag{
	Name:     "key",
	Aliases:  []string{"k"},
	Usage:    "Path to the key (openssl -text dump or PEM)",
	EnvVars:  []string{"TINYRSA_KEY"},
	Required: true,
}

var commands = []*cli.Command{
	{
		Name:  "encrypt",
		Usage: "Encrypt a file block by block",
		Flags: []cli.Flag{
			keyFlag,
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "Path to the plaintext",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Output path for the ciphertext",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "pad",
				Usage:   "Pad digits in hex, least significant first",
				EnvVars: []string{"TINYRSA_PAD"},
				Value:   hex.EncodeToString(tinyrsa.DefaultPad),
			},
			&cli.UintFlag{
				Name:    "filler",
				Usage:   "Filler byte for the short final block",
				EnvVars: []string{"TINYRSA_FILLER"},
				Value:   tinyrsa.DefaultFiller,
			},
			&cli.StringFlag{
				Name:    "checkpoint",
				Aliases: []string{"c"},
				Usage:   "Session state file, written after every block and resumed from if present",
				EnvVars: []string{"TINYRSA_CHECKPOINT"},
			},
		},
		Action: Encrypt,
	},
	{
		Name:  "format-key",
		Usage: "Print the key as a C initializer for the firmware",
		Flags: []cli.Flag{
			keyFlag,
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output path (default stdout)",
			},
		},
		Action: FormatKey,
	},
	{
		Name:   "demo",
		Usage:  "Run the 4-digit worked example with tracing",
		Action: Demo,
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tinyrsa",
		Usage: "Textbook RSA over 8-bit digits",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "trace",
				Usage:   "Log digit-level trace records to stderr",
				EnvVars: []string{"TINYRSA_TRACE"},
			},
		},
		Commands: commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cCtx *cli.Context) logging.Logger {
	level := slog.LevelInfo
	if cCtx.Bool("trace") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.New(slog.New(handler))
}

func FormatKey(cCtx *cli.Context) error {
	key, err := keyfile.Load(cCtx.String("key"))
	if err != nil {
		return err
	}
	if _, err := key.PublicKey(); err != nil {
		return fmt.Errorf("key is not usable: %w", err)
	}

	out := os.Stdout
	if path := cCtx.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return keyfile.FormatC(out, key)
}

func Demo(cCtx *cli.Context) error {
	log := newLogger(cCtx)
	ctx := context.Background()

	key, err := tinyrsa.NewPublicKey([]byte{0x01, 0x60, 0x49, 0x80}, 0x11)
	if err != nil {
		return err
	}
	enc, err := tinyrsa.NewEncryptor(tinyrsa.DefaultParams(key), tinyrsa.WithLogger(log))
	if err != nil {
		return err
	}

	block := []byte{0x55, 0x3d, 0xef}
	out := make([]byte, enc.Width())
	enc.EncryptBlock(out, block)

	log.Info(ctx, "worked example",
		"modulus", key.N.String(),
		"exponent", fmt.Sprintf("0x%x", key.E),
		"block", tinyrsa.NatFromBytes(append(block, tinyrsa.DefaultPad...), enc.Width()).String(),
		"ciphertext", tinyrsa.NatFromBytes(out, enc.Width()).String())
	fmt.Println(hex.EncodeToString(out))
	return nil
}
