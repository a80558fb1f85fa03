// Package confirmcode issues and checks the one-time numeric codes mailed to
// users during sign-up.
package confirmcode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Length is the number of digits in a code.
const Length = 6

// Generate returns Length distinct decimal digits in random order.
func Generate() (string, error) {
	digits := []byte("0123456789")
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits)-i)))
		if err != nil {
			return "", fmt.Errorf("generate confirmation code failed: %w", err)
		}
		j := i + int(n.Int64())
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits[:Length]), nil
}

// Hash returns the bcrypt hash of code. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func Hash(code string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code failed: %w", err)
	}
	return string(b), nil
}

// Verify reports whether code matches hash. An empty hash never matches.
func Verify(hash, code string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
