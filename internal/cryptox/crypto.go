// Package cryptox holds the primitives behind one-time passwords and account
// passwords: code generation, one-way digests, constant-time comparison and
// argon2id hashing.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// OTPLength is the number of decimal digits in a one-time password.
	OTPLength = 6

	otpMin  = 100000
	otpSpan = 900000 // codes are drawn from [100000, 999999]
)

// argon2id parameters, shared by hashing and verification.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ErrMalformedHash is returned when a stored password hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// randReader is a test seam for crypto/rand.Reader.
var randReader io.Reader = rand.Reader

// GenerateOTP returns a six-digit code drawn uniformly from the 900000 values
// in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(randReader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", otpMin+n.Int64()), nil
}

// IsOTPFormat reports whether code is exactly OTPLength ASCII digits.
func IsOTPFormat(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// DigestOTP computes the SHA-256 digest stored in place of a code. The
// purpose and the normalized email are mixed in, so the same six digits
// never produce the same digest for two different subjects.
func DigestOTP(purpose, email, code string) []byte {
	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return h.Sum(nil)
}

// DigestToken returns the SHA-256 digest under which an opaque bearer token
// is stored.
func DigestToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

// EqualDigest compares two digests in constant time.
func EqualDigest(stored, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

// HashPassword derives an argon2id hash with a fresh random salt and returns
// it in the PHC string form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func HashPassword(password []byte) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// VerifyPassword checks password against a hash produced by HashPassword.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory uint32
	var iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	key, err := enc.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedHash
	}

	candidate := argon2.IDKey(password, salt, iterations, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}
