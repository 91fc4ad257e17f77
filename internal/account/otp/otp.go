// Package otp generates and digests the one-time codes used to verify
// deletion requests. The plaintext code exists only in memory between
// generation and dispatch.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	codeMin  = 100000
	codeSpan = 900000 // codes are uniform in [100000, 999999]
)

// Generate produces a uniformly random 6-digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// Hash computes the one-way digest persisted in place of the code.
func Hash(code string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether code matches the stored digest.
func Verify(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
