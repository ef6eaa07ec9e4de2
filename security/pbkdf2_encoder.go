package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	PBKDF2Prefix = "pbkdf2:"
	saltChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PBKDF2Encoder reads and writes hashes in the
// "pbkdf2:<digest>:<iterations>$<salt>$<hex>" layout used by werkzeug, so
// accounts created before the switch to bcrypt keep working.
type PBKDF2Encoder struct {
	Digest     string
	Iteration  int
	SaltLength int
}

func NewPBKDF2Encoder() *PBKDF2Encoder {
	return &PBKDF2Encoder{Digest: "sha256", Iteration: 600000, SaltLength: 16}
}

func (P PBKDF2Encoder) GetPasswordHash(password string) (string, error) {
	newHash, ok := digest(P.Digest)
	if !ok {
		return "", fmt.Errorf("unsupported pbkdf2 digest %q", P.Digest)
	}
	salt, err := randomSalt(P.SaltLength)
	if err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), P.Iteration, newHash().Size(), newHash)
	return fmt.Sprintf("%s%s:%d$%s$%s", PBKDF2Prefix, P.Digest, P.Iteration, salt, hex.EncodeToString(key)), nil
}

func (P PBKDF2Encoder) IsMatching(encoded, password string) bool {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[0], PBKDF2Prefix) {
		return false
	}
	method := strings.Split(strings.TrimPrefix(parts[0], PBKDF2Prefix), ":")
	if len(method) != 2 {
		return false
	}
	newHash, ok := digest(method[0])
	if !ok {
		return false
	}
	iterations, err := strconv.Atoi(method[1])
	if err != nil || iterations < 1 {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(parts[1]), iterations, len(want), newHash)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func digest(name string) (func() hash.Hash, bool) {
	switch name {
	case "sha256":
		return sha256.New, true
	case "sha512":
		return sha512.New, true
	default:
		return nil, false
	}
}

func randomSalt(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(saltChars)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[n.Int64()])
	}
	return b.String(), nil
}
