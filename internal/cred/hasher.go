// Package cred derives and verifies the salted password digests stored in
// account records. The contract the store relies on: the digest is a
// deterministic function of (plaintext, salt), fixed at DigestLength
// bytes, with a fresh salt per account and per password change.
//
// PBKDF2-SHA256 at this iteration count is a placeholder strength-wise; a
// production deployment should raise the work factor or move to a
// memory-hard KDF. Only the interface contract above is fixed here.
package cred

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/cmbank/corebank/internal/domain"
	"golang.org/x/crypto/pbkdf2"
)

const iterations = 4096

// saltChars matches the classic crypt salt alphabet.
const saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789./"

// Digest derives the stored digest for plain under salt.
func Digest(plain string, salt [domain.SaltLength]byte) [domain.DigestLength]byte {
	var out [domain.DigestLength]byte
	copy(out[:], pbkdf2.Key([]byte(plain), salt[:], iterations, domain.DigestLength, sha256.New))
	return out
}

// NewSalt draws a fresh random salt.
func NewSalt() ([domain.SaltLength]byte, error) {
	var salt [domain.SaltLength]byte
	raw := make([]byte, domain.SaltLength)
	if _, err := rand.Read(raw); err != nil {
		return salt, fmt.Errorf("salt generation failed: %w", err)
	}
	for i, b := range raw {
		salt[i] = saltChars[int(b)%len(saltChars)]
	}
	return salt, nil
}

// Verify reports whether plain matches the stored digest under salt.
func Verify(plain string, salt [domain.SaltLength]byte, want [domain.DigestLength]byte) bool {
	got := Digest(plain, salt)
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}
