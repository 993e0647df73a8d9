// Package encoding provides the low-level bit codecs used throughout openenc.
// It has no dependencies outside the module and performs no allocation beyond
// the returned values.
//
// Base64url Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), - (62), _ (63)
// See RFC 4648 section 5. No '=' padding is ever produced or accepted.
package encoding

import (
	"errors"
	"fmt"
	"unicode/utf8"

	codecerr "github.com/standardbeagle/openenc/internal/errors"
)

// Base64url encoding constants
const (
	Base64     = 64
	Alphabet64 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

// Common errors for encoding operations
var (
	ErrInvalidChar     = errors.New("invalid character")
	ErrInvalidPadding  = errors.New("non-zero bits in padding")
	ErrInvalidAlphabet = errors.New("value outside alphabet")
)

// Symbol converts a 6-bit value (0-63) to its base64url character.
func Symbol(val byte) (byte, error) {
	if val >= Base64 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlphabet, val)
	}
	return Alphabet64[val], nil
}

// Value converts a base64url character to its 6-bit value (0-63).
func Value(c rune) (byte, error) {
	switch {
	case c == '-':
		return 62, nil
	case c >= '0' && c <= '9':
		return byte(c-'0') + 52, nil
	case c >= 'A' && c <= 'Z':
		return byte(c - 'A'), nil
	case c == '_':
		return 63, nil
	case c >= 'a' && c <= 'z':
		return byte(c-'a') + 26, nil
	default:
		return 0, fmt.Errorf("%w: U+%04X", ErrInvalidChar, c)
	}
}

// EncodedLen returns the number of symbols needed for n bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}

// DecodedLen returns the number of whole bytes carried by n symbols.
func DecodedLen(n int) int {
	return n * 6 / 8
}

// EncodeBase64 encodes bytes to a padding-free base64url string.
func EncodeBase64(src []byte) string {
	return string(AppendBase64(make([]byte, 0, EncodedLen(len(src))), src))
}

// AppendBase64 appends the base64url encoding of src to dst.
// Each symbol is the 6-bit group at bit offset j = 0, 6, 12, ... of src,
// which may span two adjacent bytes. A trailing partial group is padded
// with zero bits.
func AppendBase64(dst, src []byte) []byte {
	size := len(src) * 8
	full := size / 6
	remainder := size % 6

	for i, j := 0, 0; i < full; i, j = i+1, j+6 {
		pos := j / 8
		shift := j % 8
		m := src[pos]
		var v byte
		if shift <= 2 {
			v = (m >> (2 - shift)) & 0x3F
		} else {
			l := src[pos+1]
			v = ((m << (shift - 2)) & 0x3F) | (l >> (10 - shift))
		}
		dst = append(dst, Alphabet64[v])
	}

	if remainder > 0 {
		dst = append(dst, Alphabet64[(src[len(src)-1]<<(6-remainder))&0x3F])
	}
	return dst
}

// DecodeBase64 decodes a padding-free base64url string.
// Returns ErrInvalidChar (wrapped in a CodecError carrying the offending
// position) for characters outside the alphabet, and ErrInvalidPadding when
// the bits discarded from a trailing partial group are not all zero.
func DecodeBase64(encoded string) ([]byte, error) {
	vals, err := symbolValues("base64url decode", encoded)
	if err != nil {
		return nil, err
	}

	size := len(vals) * 6
	length := size / 8
	remainder := size % 8
	out := make([]byte, length)

	// Byte offsets are multiples of 8, so the shift within a symbol is
	// always 0, 2 or 4 and every byte comes from exactly two symbols.
	for i, j := 0, 0; i < length; i, j = i+1, j+8 {
		pos := j / 6
		shift := j % 6
		out[i] = (vals[pos] << (2 + shift)) | (vals[pos+1] >> (4 - shift))
	}

	if remainder > 0 && (vals[len(vals)-1]<<(6-remainder))&0x3F != 0 {
		return nil, codecerr.NewDecodeError("base64url decode", len(vals)-1,
			rune(encoded[len(vals)-1]), ErrInvalidPadding)
	}
	return out, nil
}

// IsBase64 reports whether s could have been produced by EncodeBase64: every
// character is in the alphabet and a trailing partial group has zero low bits.
func IsBase64(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, err := Value(rune(s[i])); err != nil {
			return false
		}
	}
	switch len(s) % 4 {
	case 0:
		return true
	case 1:
		// one symbol cannot carry a whole byte
		return false
	case 2:
		v, _ := Value(rune(s[len(s)-1]))
		return v&0xF == 0
	default:
		v, _ := Value(rune(s[len(s)-1]))
		return v&0x3 == 0
	}
}

// symbolValues maps every character of s to its 6-bit value.
func symbolValues(op, s string) ([]byte, error) {
	vals := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		v, err := Value(rune(s[i]))
		if err != nil {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, codecerr.NewDecodeError(op, i, r, ErrInvalidChar)
		}
		vals[i] = v
	}
	return vals, nil
}
