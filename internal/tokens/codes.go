package tokens

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// OTPLength is the digit count of verification codes.
const OTPLength = 6

// nextDisplayCode builds the display code for the next token in a slot.
// Numbers grow from the highest suffix ever issued in the slot; gaps from
// cancelled tokens are not reused.
func nextDisplayCode(prefix string, maxSuffix int) string {
	return fmt.Sprintf("%s%03d", prefix, maxSuffix+1)
}

// displaySuffix extracts the numeric suffix of a display code minted with the
// given prefix. Codes with a foreign prefix or non-numeric tail count as 0.
func displaySuffix(prefix, tokenNo string) int {
	if !strings.HasPrefix(tokenNo, prefix) {
		return 0
	}
	n, err := strconv.Atoi(tokenNo[len(prefix):])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// generateOTP draws a uniform 6 digit decimal code from crypto/rand.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("draw otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// normalizeDigits strips everything except decimal digits, matching how
// people type codes with spaces or hyphens.
func normalizeDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
