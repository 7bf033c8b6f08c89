// Package otp generates and checks the short numeric passcodes used for
// account verification and password reset. A code is valid iff it equals the
// stored code and the expiry has not passed; the two channels differ only in
// their configured windows.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

// Digits is the length of generated passcodes.
const Digits = 6

var max = big.NewInt(1000000)

// Generate returns a random 6-digit passcode, zero padded.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Matches reports whether the supplied code equals the stored one.
// Comparison is constant time; an empty stored code never matches.
func Matches(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// IsExpired reports whether the window has elapsed. A nil expiry counts as
// expired so a half-cleared record can never validate.
func IsExpired(expires *time.Time, now time.Time) bool {
	return expires == nil || !now.Before(*expires)
}
