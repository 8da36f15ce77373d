package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password digests use PBKDF2-SHA256 with an explicit iteration count and
// a random salt, serialized as "pbkdf2:sha256:<iterations>$<salt>$<hex>".
// Plaintext never touches storage or logs.

const (
	hashIterations = 600000
	saltLength     = 8
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HashPassword derives a salted one-way digest of plain.
func HashPassword(plain string) string {
	salt := randomSalt(saltLength)
	key := pbkdf2.Key([]byte(plain), []byte(salt), hashIterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", hashIterations, salt, hex.EncodeToString(key))
}

// CheckPassword reports whether plain matches digest. Malformed digests
// simply fail the check.
func CheckPassword(digest, plain string) bool {
	parts := strings.SplitN(digest, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]
	spec := strings.SplitN(method, ":", 3)
	if len(spec) != 3 || spec[0] != "pbkdf2" || spec[1] != "sha256" {
		return false
	}
	iterations, err := strconv.Atoi(spec[2])
	if err != nil || iterations <= 0 {
		return false
	}
	wantRaw, err := hex.DecodeString(want)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(plain), []byte(salt), iterations, len(wantRaw), sha256.New)
	return hmac.Equal(key, wantRaw)
}

func randomSalt(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("auth: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(buf)
}
