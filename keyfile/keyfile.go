// Package keyfile loads provisioned RSA keys and converts them to the digit
// form used by tinyrsa.
//
// Two inputs are understood: the text dump printed by `openssl rsa -text`
// (or `-pubin -text`), and PEM encoded PKCS #1, PKIX or PKCS #8 keys.
package keyfile

import (
	"bufio"
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"os"
	"regexp"
	"strings"

	"github.com/bastionzero/tinyrsa"
)

// A Key is an RSA key as read from a key file. D is nil for public keys.
type Key struct {
	N *big.Int // modulus
	E *big.Int // public exponent
	D *big.Int // private exponent, if present
}

var (
	fieldLine = regexp.MustCompile(`^(?P<name>[^: \t]+):(\s*(?P<value>\d+))?`)
	hexLine   = regexp.MustCompile(`^\s+[0-9A-Fa-f:]+\s*$`)
)

// field names across openssl versions, for private and public dumps
var fieldNames = map[string]string{
	"modulus":         "modulus",
	"Modulus":         "modulus",
	"publicExponent":  "publicExponent",
	"Exponent":        "publicExponent",
	"privateExponent": "privateExponent",
}

// ParseText reads the text dump of `openssl rsa -text`. Multi-line hex
// values are colon separated and may carry leading zero bytes.
func ParseText(r io.Reader) (*Key, error) {
	values := make(map[string]*big.Int)

	var name string
	var hex strings.Builder
	closeValue := func() error {
		if name == "" {
			return nil
		}
		v, err := parseHexDigits(hex.String())
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		values[name] = v
		name = ""
		hex.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if m := fieldLine.FindStringSubmatch(line); m != nil {
			// the key-size header and prime/coefficient fields are not needed
			if err := closeValue(); err != nil {
				return nil, err
			}

			key, ok := fieldNames[m[fieldLine.SubexpIndex("name")]]
			if !ok {
				continue
			}
			if value := m[fieldLine.SubexpIndex("value")]; value != "" {
				v, ok := new(big.Int).SetString(value, 10)
				if !ok {
					return nil, fmt.Errorf("failed to parse %s: %q", key, value)
				}
				values[key] = v
				continue
			}
			name = key
		} else if name != "" && hexLine.MatchString(line) {
			hex.WriteString(strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key dump: %w", err)
	}
	if err := closeValue(); err != nil {
		return nil, err
	}

	k := &Key{
		N: values["modulus"],
		E: values["publicExponent"],
		D: values["privateExponent"],
	}
	if k.N == nil || k.E == nil {
		return nil, fmt.Errorf("key dump has no modulus or public exponent")
	}
	return k, nil
}

// parseHexDigits parses colon separated hex bytes such as "00:c3:1f".
func parseHexDigits(s string) (*big.Int, error) {
	digits := strings.ReplaceAll(strings.Trim(s, ":"), ":", "")
	if digits == "" {
		return nil, fmt.Errorf("empty value")
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex digits %q", s)
	}
	return v, nil
}

// ParsePEM reads the first RSA key in a PEM encoding.
func ParsePEM(data []byte) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing RSA key")
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS #1 public key: %w", err)
		}
		return fromPublic(pub), nil
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("PKIX public key is %T, not RSA", pub)
		}
		return fromPublic(rsaPub), nil
	case "RSA PRIVATE KEY":
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS #1 private key: %w", err)
		}
		return fromPrivate(priv), nil
	case "PRIVATE KEY":
		priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS #8 private key: %w", err)
		}
		rsaPriv, ok := priv.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS #8 private key is %T, not RSA", priv)
		}
		return fromPrivate(rsaPriv), nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

func fromPublic(pub *rsa.PublicKey) *Key {
	return &Key{N: new(big.Int).Set(pub.N), E: big.NewInt(int64(pub.E))}
}

func fromPrivate(priv *rsa.PrivateKey) *Key {
	k := fromPublic(&priv.PublicKey)
	k.D = new(big.Int).Set(priv.D)
	return k
}

// Parse reads a key in either supported format.
func Parse(data []byte) (*Key, error) {
	if bytes.Contains(data, []byte("-----BEGIN ")) {
		return ParsePEM(data)
	}
	return ParseText(bytes.NewReader(data))
}

// Load reads a key file in either supported format.
func Load(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	k, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}

// Digits returns the radix-256 digits of n, least significant first, without
// leading zero digits.
func Digits(n *big.Int) []byte {
	b := n.Bytes()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// PublicKey converts k to the engine's key form. The block width is the byte
// length of the modulus.
func (k *Key) PublicKey() (tinyrsa.PublicKey, error) {
	if k.E.Sign() < 0 || !k.E.IsUint64() {
		return tinyrsa.PublicKey{}, fmt.Errorf("public exponent %v does not fit in 64 bits", k.E)
	}
	return tinyrsa.NewPublicKey(Digits(k.N), k.E.Uint64())
}

// FormatC writes the key as the C initializer consumed by the firmware.
func FormatC(w io.Writer, k *Key) error {
	digits := Digits(k.N)
	formatted := make([]string, len(digits))
	for i, d := range digits {
		formatted[i] = fmt.Sprintf("0x%02x", d)
	}

	_, err := fmt.Fprintf(w, "// modulus: byte order: LSB to MSB, constraint MSB>=0x80\n.n = { %s },\n.e = 0x%x\n",
		strings.Join(formatted, ","), k.E)
	return err
}
