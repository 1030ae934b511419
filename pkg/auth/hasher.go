package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hasher is a one-way salted hash used for both user passwords and
// provider access tokens before storage, so a credential-store leak
// does not expose usable secrets.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(encoded, secret string) bool
}

// argon2Hasher implements Hasher with argon2id. Unlike bcrypt it has no
// input length ceiling, which matters because provider access tokens
// can exceed 72 bytes.
type argon2Hasher struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// Argon2Option tunes the KDF cost parameters.
type Argon2Option func(*argon2Hasher)

// WithArgon2Memory sets the memory cost in KiB.
func WithArgon2Memory(kib uint32) Argon2Option {
	return func(h *argon2Hasher) {
		h.memory = kib
	}
}

// WithArgon2Time sets the number of passes.
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *argon2Hasher) {
		h.time = t
	}
}

// NewArgon2Hasher creates an argon2id hasher with RFC 9106 low-memory
// defaults: 64 MiB, 1 pass, 4 lanes.
func NewArgon2Hasher(opts ...Argon2Option) Hasher {
	h := &argon2Hasher{
		memory:  64 * 1024,
		time:    1,
		threads: 4,
		saltLen: 16,
		keyLen:  32,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives an argon2id key from the secret with a fresh random salt
// and encodes it in the standard modular crypt format.
func (h *argon2Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify re-derives the key with the parameters embedded in the encoded
// hash and compares in constant time. Any parse failure verifies false.
func (h *argon2Hasher) Verify(encoded, secret string) bool {
	salt, key, memory, time, threads, err := decodeArgon2(encoded)
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(secret), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, derived) == 1
}

func decodeArgon2(encoded string) (salt, key []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errors.New("not an argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, errors.New("unsupported argon2 version")
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	return salt, key, memory, time, threads, nil
}
