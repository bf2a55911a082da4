package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	"github.com/veilstore/veil/internal/rec"
)

// Mode selects the storage representation for field values.
type Mode string

const (
	// ModePlain stores values as-is.
	ModePlain Mode = "plain"

	// ModeEncoded stores values base64-encoded. Reversible and injective,
	// but not confidential.
	ModeEncoded Mode = "encoded"

	// ModeEncrypted stores values AES-256-GCM encrypted under the configured
	// secret.
	ModeEncrypted Mode = "encrypted"
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePlain, ModeEncoded, ModeEncrypted:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be one of plain, encoded, encrypted", s)
	}
}

// Config fixes the storage representation for a store instance.
//
// Mode and Secret are immutable for the instance's lifetime: changing them
// after rows have been written invalidates matching over those rows.
type Config struct {
	// Mode selects the representation.
	Mode Mode

	// Secret is the key material for encrypted mode. Required iff
	// Mode == ModeEncrypted; never persisted by the store.
	Secret string

	// Deterministic selects deterministic encryption (the default policy).
	// Only meaningful when Mode == ModeEncrypted. When false, encryption is
	// randomized and every predicate operation degrades to a full-table
	// decrypt-and-compare scan.
	Deterministic bool
}

// DefaultConfig returns the plain-mode configuration.
func DefaultConfig() Config {
	return Config{Mode: ModePlain, Deterministic: true}
}

// Validate checks the mode/secret combination.
func (c Config) Validate() error {
	switch c.Mode {
	case ModePlain, ModeEncoded:
		if c.Secret != "" {
			return fmt.Errorf("secret is only meaningful in encrypted mode")
		}
	case ModeEncrypted:
		if c.Secret == "" {
			return fmt.Errorf("encrypted mode requires a secret")
		}
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	return nil
}

// EqualityPreserving reports whether encode(v1) == encode(v2) ⇔ v1 == v2
// holds for this configuration. When true, predicate matching is pushed down
// to the engine as an exact-match lookup; when false (randomized encryption),
// the resolver falls back to decrypt-and-compare.
func (c Config) EqualityPreserving() bool {
	return c.Mode != ModeEncrypted || c.Deterministic
}

// Codec converts single values between plaintext and the configured storage
// representation. Stateless per call; safe for concurrent use.
type Codec struct {
	cfg Config
	key []byte // SHA-256 of the secret; nil unless encrypted
}

const nonceSize = 12

// New creates a Codec for the given configuration.
func New(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{cfg: cfg}
	if cfg.Mode == ModeEncrypted {
		key := sha256.Sum256([]byte(cfg.Secret))
		c.key = key[:]
	}
	return c, nil
}

// Config returns the codec's immutable configuration.
func (c *Codec) Config() Config {
	return c.cfg
}

// EqualityPreserving reports whether the active configuration preserves
// equality under the transform.
func (c *Codec) EqualityPreserving() bool {
	return c.cfg.EqualityPreserving()
}

// EncodeValue converts a plaintext value to its storage representation.
// Null passes through untransformed in every mode.
func (c *Codec) EncodeValue(v rec.Value) (rec.Value, error) {
	if rec.IsNull(v) {
		return rec.Null{}, nil
	}
	switch c.cfg.Mode {
	case ModePlain:
		return v, nil
	case ModeEncoded:
		return rec.Text(base64.StdEncoding.EncodeToString(tagValue(v))), nil
	case ModeEncrypted:
		sealed, err := c.seal(tagValue(v))
		if err != nil {
			return nil, err
		}
		return rec.Text(base64.StdEncoding.EncodeToString(sealed)), nil
	default:
		return nil, fmt.Errorf("invalid mode %q", c.cfg.Mode)
	}
}

// DecodeValue converts a storage value back to plaintext. col supplies the
// declared column type, used in plain mode to restore kinds the engine
// cannot represent natively (booleans come back as integers).
//
// Fails with DECODE_ERROR if the stored value is not validly encoded or
// encrypted under the configured mode and secret; never returns garbage.
func (c *Codec) DecodeValue(v rec.Value, col rec.Column) (rec.Value, error) {
	if rec.IsNull(v) {
		return rec.Null{}, nil
	}
	switch c.cfg.Mode {
	case ModePlain:
		return coerceDeclared(v, col), nil
	case ModeEncoded:
		raw, err := base64.StdEncoding.DecodeString(storedText(v))
		if err != nil {
			return nil, rec.NewDecodeError("stored value is not valid base64", err)
		}
		return untagValue(raw)
	case ModeEncrypted:
		sealed, err := base64.StdEncoding.DecodeString(storedText(v))
		if err != nil {
			return nil, rec.NewDecodeError("stored value is not valid base64", err)
		}
		raw, err := c.open(sealed)
		if err != nil {
			return nil, err
		}
		return untagValue(raw)
	default:
		return nil, fmt.Errorf("invalid mode %q", c.cfg.Mode)
	}
}

// seal encrypts a tagged plaintext with AES-256-GCM. Deterministic
// configurations derive the nonce from the plaintext via HMAC-SHA256, so
// equal plaintexts seal to equal ciphertexts under the same secret.
func (c *Codec) seal(plaintext []byte) ([]byte, error) {
	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if c.cfg.Deterministic {
		mac := hmac.New(sha256.New, c.key)
		mac.Write(plaintext)
		copy(nonce, mac.Sum(nil)[:nonceSize])
	} else {
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, fmt.Errorf("generate nonce: %w", err)
		}
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open authenticates and decrypts a sealed value.
func (c *Codec) open(sealed []byte) ([]byte, error) {
	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize {
		return nil, rec.NewDecodeError("sealed value is truncated", nil)
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, rec.NewDecodeError("authentication failed: wrong secret or corrupted data", err)
	}
	return plaintext, nil
}

func (c *Codec) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Type tags for the sealed serialization. The tag travels inside the
// encoded/encrypted payload so decode restores the exact scalar kind without
// consulting column types.
const (
	tagText = 's'
	tagInt  = 'i'
	tagReal = 'r'
	tagBool = 'b'
	tagBlob = 'x'
)

// tagValue serializes a non-null scalar with a one-byte type tag.
// Injective: distinct values never serialize to the same bytes.
func tagValue(v rec.Value) []byte {
	switch val := v.(type) {
	case rec.Text:
		return append([]byte{tagText}, val...)
	case rec.Int:
		return strconv.AppendInt([]byte{tagInt}, int64(val), 10)
	case rec.Real:
		return strconv.AppendFloat([]byte{tagReal}, float64(val), 'g', -1, 64)
	case rec.Bool:
		if val {
			return []byte{tagBool, '1'}
		}
		return []byte{tagBool, '0'}
	case rec.Blob:
		return append([]byte{tagBlob}, val...)
	default:
		// Unreachable: Null is handled before serialization.
		return nil
	}
}

// untagValue inverts tagValue.
func untagValue(raw []byte) (rec.Value, error) {
	if len(raw) == 0 {
		return nil, rec.NewDecodeError("empty serialized value", nil)
	}
	tag, payload := raw[0], raw[1:]
	switch tag {
	case tagText:
		return rec.Text(payload), nil
	case tagInt:
		n, err := strconv.ParseInt(string(payload), 10, 64)
		if err != nil {
			return nil, rec.NewDecodeError("malformed integer payload", err)
		}
		return rec.Int(n), nil
	case tagReal:
		f, err := strconv.ParseFloat(string(payload), 64)
		if err != nil {
			return nil, rec.NewDecodeError("malformed real payload", err)
		}
		return rec.Real(f), nil
	case tagBool:
		switch string(payload) {
		case "1":
			return rec.Bool(true), nil
		case "0":
			return rec.Bool(false), nil
		default:
			return nil, rec.NewDecodeError("malformed boolean payload", nil)
		}
	case tagBlob:
		b := make([]byte, len(payload))
		copy(b, payload)
		return rec.Blob(b), nil
	default:
		return nil, rec.NewDecodeError(fmt.Sprintf("unknown type tag %q", tag), nil)
	}
}

// storedText extracts the textual form of a stored value. Encoded and
// encrypted representations are always stored as text, but blob-affinity
// columns may hand the bytes back as a Blob.
func storedText(v rec.Value) string {
	switch val := v.(type) {
	case rec.Text:
		return string(val)
	case rec.Blob:
		return string(val)
	default:
		return ""
	}
}

// coerceDeclared restores scalar kinds the engine flattened in plain mode.
// SQLite has no boolean storage class: booleans round-trip as integers and
// are mapped back through the declared column type.
func coerceDeclared(v rec.Value, col rec.Column) rec.Value {
	if n, ok := v.(rec.Int); ok && rec.Affinity(col.DeclaredType) == rec.AffinityBoolean {
		return rec.Bool(n != 0)
	}
	return v
}
