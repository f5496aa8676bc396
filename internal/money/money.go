// Package money implements scale-preserving arithmetic on literal decimal
// strings. Receipts must echo amounts exactly as the client submitted them,
// so values are never converted through floats and trailing zeros are kept.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid reports a string that is not a plain unsigned decimal.
var ErrInvalid = errors.New("invalid decimal amount")

const maxDigits = 15

// Parse splits a decimal string into its integer digits and scale.
// Accepted forms: "12", "12.5", "0.50". No sign, no exponent.
func Parse(s string) (digits int64, scale int, err error) {
	if s == "" {
		return 0, 0, ErrInvalid
	}
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || (hasDot && fracPart == "") {
		return 0, 0, ErrInvalid
	}
	joined := intPart + fracPart
	if len(joined) > maxDigits {
		return 0, 0, fmt.Errorf("%w: too many digits", ErrInvalid)
	}
	for _, r := range joined {
		if r < '0' || r > '9' {
			return 0, 0, ErrInvalid
		}
	}
	digits, err = strconv.ParseInt(joined, 10, 64)
	if err != nil {
		return 0, 0, ErrInvalid
	}
	return digits, len(fracPart), nil
}

// Validate reports whether s is a well-formed unsigned decimal amount.
func Validate(s string) error {
	_, _, err := Parse(s)
	return err
}

// IsPositive reports whether s parses and is strictly greater than zero.
func IsPositive(s string) bool {
	digits, _, err := Parse(s)
	return err == nil && digits > 0
}

// Mul multiplies a decimal string by an integer quantity, preserving the
// input's scale: Mul("12.50", 2) == "25.00".
func Mul(s string, qty int) (string, error) {
	digits, scale, err := Parse(s)
	if err != nil {
		return "", err
	}
	if qty < 0 {
		return "", fmt.Errorf("%w: negative quantity", ErrInvalid)
	}
	product := digits * int64(qty)
	if qty != 0 && product/int64(qty) != digits {
		return "", fmt.Errorf("%w: overflow", ErrInvalid)
	}
	return format(product, scale), nil
}

func format(digits int64, scale int) string {
	text := strconv.FormatInt(digits, 10)
	if scale == 0 {
		return text
	}
	for len(text) <= scale {
		text = "0" + text
	}
	dot := len(text) - scale
	return text[:dot] + "." + text[dot:]
}
