package encoding

import (
	"errors"
	"fmt"

	codecerr "github.com/standardbeagle/openenc/internal/errors"
)

// HexDigits is the uppercase hexadecimal alphabet used for percent escapes.
const HexDigits = "0123456789ABCDEF"

var ErrOddLength = errors.New("odd number of hex digits")

// HexChar converts a nibble (0-15) to its uppercase hex digit.
// Panics if val > 15 (internal error, callers always mask first).
func HexChar(val byte) byte {
	if val > 0xF {
		panic(fmt.Sprintf("encoding: invalid hex value %d", val))
	}
	return HexDigits[val]
}

// HexValue converts a hex digit to its value, accepting either case.
func HexValue(c rune) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), nil
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 0xA, nil
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 0xA, nil
	default:
		return 0, fmt.Errorf("%w: U+%04X", ErrInvalidChar, c)
	}
}

// EncodeHex renders src as uppercase hex, two digits per byte.
func EncodeHex(src []byte) string {
	dst := make([]byte, 0, len(src)*2)
	for _, b := range src {
		dst = append(dst, HexChar(b>>4), HexChar(b&0xF))
	}
	return string(dst)
}

// DecodeHex parses pairs of hex digits in either case.
func DecodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, codecerr.NewDecodeError("hex decode", codecerr.NoPosition, 0, ErrOddLength)
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi, err := HexValue(rune(s[i]))
		if err != nil {
			return nil, codecerr.NewDecodeError("hex decode", i, rune(s[i]), ErrInvalidChar)
		}
		lo, err := HexValue(rune(s[i+1]))
		if err != nil {
			return nil, codecerr.NewDecodeError("hex decode", i+1, rune(s[i+1]), ErrInvalidChar)
		}
		out[i/2] = hi<<4 | lo
	}
	return out, nil
}
