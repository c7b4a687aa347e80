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

// maxMemoryKiB bounds the cost a stored digest can ask Verify to spend.
const maxMemoryKiB = 1 << 21

var errMalformedDigest = errors.New("malformed argon2id digest")

// HasherConfig holds the argon2id cost parameters.
type HasherConfig struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultHasherConfig returns m=64MiB, t=2, p=1 with a 16 byte salt and a
// 32 byte key.
func DefaultHasherConfig() HasherConfig {
	return HasherConfig{Memory: 64 * 1024, Time: 2, Threads: 1, SaltLen: 16, KeyLen: 32}
}

// PasswordHasher turns a plaintext password into a digest and checks a
// plaintext against one.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Argon2Hasher produces PHC formatted argon2id digests:
//
//	$argon2id$v=19$m=65536,t=2,p=1$<salt>$<key>
//
// Salt and key are unpadded standard base64. Verify reads the cost from the
// digest, so digests made under an older config keep verifying.
type Argon2Hasher struct {
	cfg HasherConfig
}

func NewArgon2Hasher(cfg HasherConfig) *Argon2Hasher {
	def := DefaultHasherConfig()
	if cfg.Memory == 0 {
		cfg.Memory = def.Memory
	}
	if cfg.Time == 0 {
		cfg.Time = def.Time
	}
	if cfg.Threads == 0 {
		cfg.Threads = def.Threads
	}
	if cfg.SaltLen == 0 {
		cfg.SaltLen = def.SaltLen
	}
	if cfg.KeyLen == 0 {
		cfg.KeyLen = def.KeyLen
	}
	return &Argon2Hasher{cfg: cfg}
}

func (h *Argon2Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.cfg.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Threads, h.cfg.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.cfg.Memory, h.cfg.Time, h.cfg.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify never returns an error: malformed digests simply do not match.
func (h *Argon2Hasher) Verify(plain, digest string) bool {
	p, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	other := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1
}

func decodeDigest(digest string) (HasherConfig, []byte, []byte, error) {
	var p HasherConfig
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, errMalformedDigest
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedDigest
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformedDigest
	}
	if p.Memory == 0 || p.Memory > maxMemoryKiB || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, errMalformedDigest
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errMalformedDigest
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformedDigest
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
