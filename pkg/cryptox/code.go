package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// Reset codes are four digits, never with a leading zero.
const (
	resetCodeMin = 1000
	resetCodeMax = 9999
)

// GenerateResetCode draws a uniformly distributed code in [1000, 9999] from
// crypto/rand.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeMax-resetCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("cryptox: reset code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+resetCodeMin, 10), nil
}
