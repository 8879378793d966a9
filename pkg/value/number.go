package value

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixPattern   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// ParseNumber converts s to a finite number. Coercion is permissive:
// surrounding whitespace is ignored, an empty or blank string is 0, and
// unsigned 0x/0o/0b integer literals are accepted. Infinity, NaN and
// anything else report false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimFunc(s, IsSpace)
	if s == "" {
		return 0, true
	}

	if radixPattern.MatchString(s) {
		base := 16
		switch s[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		n, ok := new(big.Int).SetString(s[2:], base)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, !math.IsInf(f, 0)
	}

	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if math.IsInf(f, 0) {
		return 0, false
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// IsSpace reports whether r is whitespace in a .razan file: the ASCII
// controls \t \n \v \f \r, any Unicode space separator, U+2028, U+2029
// and the byte order mark. U+0085 is not whitespace.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
