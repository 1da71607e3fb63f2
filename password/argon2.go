package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

// Config holds the argon2id cost parameters.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher computes and verifies argon2id digests. It is immutable and
// safe for concurrent use.
type Hasher struct {
	config Config
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
	keyLength   uint32
}

// NewHasher validates the cost parameters and returns a Hasher. Floors
// exist so a misconfigured deployment cannot silently weaken hashing.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a digest from the password with a fresh random salt and
// returns it PHC-encoded. The only error path is the system randomness
// source failing.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the encoded digest. The digest
// is recomputed with the parameters embedded in the encoding and compared
// in constant time. Malformed input fails closed and returns false.
func (h *Hasher) Verify(password, encodedHash string) bool {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		parsed.keyLength,
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, errors.New("missing argon2 version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(salt) < int(minSaltLength) {
		return nil, errors.New("invalid salt length")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(hash) < int(minKeyLength) {
		return nil, errors.New("invalid hash length")
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
		keyLength:   uint32(len(hash)),
	}, nil
}

type phcParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(s string) (phcParams, error) {
	var out phcParams
	seen := map[string]bool{}

	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || seen[key] {
			return out, errors.New("invalid PHC parameters")
		}
		seen[key] = true

		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return out, errors.New("invalid PHC parameters")
		}

		switch key {
		case "m":
			out.memory = uint32(n)
		case "t":
			out.time = uint32(n)
		case "p":
			if n == 0 || n > 255 {
				return out, errors.New("invalid PHC parameters")
			}
			out.parallelism = uint8(n)
		default:
			return out, errors.New("invalid PHC parameters")
		}
	}

	if out.memory == 0 || out.time == 0 || out.parallelism == 0 {
		return out, errors.New("invalid PHC parameters")
	}
	return out, nil
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return fmt.Errorf("argon2 memory below minimum of %d KB", minMemoryKB)
	}
	if cfg.Time < minTimeCost {
		return errors.New("argon2 time cost below minimum")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("argon2 parallelism below minimum")
	}
	if cfg.SaltLength < minSaltLength {
		return fmt.Errorf("argon2 salt length below minimum of %d", minSaltLength)
	}
	if cfg.KeyLength < minKeyLength {
		return fmt.Errorf("argon2 key length below minimum of %d", minKeyLength)
	}
	return nil
}
