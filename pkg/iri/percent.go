package iri

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/standardbeagle/openenc/internal/encoding"
	codecerr "github.com/standardbeagle/openenc/internal/errors"
)

var (
	ErrInvalidSurrogate = errors.New("invalid surrogate pair")
	ErrInvalidUTF8      = errors.New("invalid UTF-8")
)

const (
	surrLead  = 0xD800
	surrTrail = 0xDC00
	surrEnd   = 0xDFFF
	maxRune   = 0x10FFFF
)

// Encode percent-encodes every code point of s outside the iunreserved class.
func Encode(s string) (string, error) {
	out, err := AppendEncode(make([]byte, 0, len(s)*3/2), s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// AppendEncode appends the percent-encoded form of s to dst.
func AppendEncode(dst []byte, s string) ([]byte, error) {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return nil, codecerr.NewEncodeError("percent encode", i, rune(s[i]), ErrInvalidUTF8)
			}
		}
		dst = appendRune(dst, r)
	}
	return dst, nil
}

// EncodeUTF16 percent-encodes UTF-16 code units. A lead surrogate must be
// immediately followed by a trail surrogate; anything else is
// ErrInvalidSurrogate.
func EncodeUTF16(units []uint16) (string, error) {
	dst := make([]byte, 0, len(units)*3/2)
	for i := 0; i < len(units); i++ {
		c := rune(units[i])
		if c < surrLead || c > surrEnd {
			dst = appendRune(dst, c)
			continue
		}
		if c >= surrTrail {
			return "", codecerr.NewEncodeError("percent encode", i, c, ErrInvalidSurrogate)
		}
		if i+1 >= len(units) {
			return "", codecerr.NewEncodeError("percent encode", i, c, ErrInvalidSurrogate)
		}
		c2 := rune(units[i+1])
		if c2 < surrTrail || c2 > surrEnd {
			return "", codecerr.NewEncodeError("percent encode", i+1, c2, ErrInvalidSurrogate)
		}
		dst = appendRune(dst, utf16.DecodeRune(c, c2))
		i++
	}
	return string(dst), nil
}

// appendRune writes r unchanged if unreserved, else as %XX per UTF-8 byte.
func appendRune(dst []byte, r rune) []byte {
	if IsUnreserved(r) {
		return utf8.AppendRune(dst, r)
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	for _, b := range buf[:n] {
		dst = append(dst, '%', encoding.HexChar(b>>4), encoding.HexChar(b&0xF))
	}
	return dst
}

// Decode reverses Encode and also accepts '+' for space. It never fails:
// a bad hex digit, an unexpected byte or an overlong, surrogate or out of
// range sequence each become one U+FFFD, and decoding continues. An escape
// cut short by the end of input yields one U+FFFD and ends the output.
func Decode(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	var (
		octets    int // length of the sequence in progress
		remaining int // continuation bytes still expected
		codepoint int
	)

	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch c {
		case '%':
			hi, n1 := utf8.DecodeRuneInString(s[i:])
			if n1 == 0 || i+n1 >= len(s) {
				out.WriteRune(utf8.RuneError)
				return out.String()
			}
			i += n1
			h, err := encoding.HexValue(hi)
			if err != nil {
				// resume at the character after the bad digit
				out.WriteRune(utf8.RuneError)
				remaining = 0
				continue
			}
			lo, n2 := utf8.DecodeRuneInString(s[i:])
			i += n2
			l, err := encoding.HexValue(lo)
			if err != nil {
				out.WriteRune(utf8.RuneError)
				remaining = 0
				continue
			}
			b := int(h<<4 | l)

			if remaining == 0 {
				switch {
				case b>>7 == 0: // 0xxxxxxx
					out.WriteByte(byte(b))
				case b>>5 == 0x6: // 110xxxxx
					octets, remaining, codepoint = 2, 1, (b&0x1F)<<6
				case b>>4 == 0xE: // 1110xxxx
					octets, remaining, codepoint = 3, 2, (b&0xF)<<12
				case b>>3 == 0x1E: // 11110xxx
					octets, remaining, codepoint = 4, 3, (b&0x7)<<18
				case b>>2 == 0x3E: // 111110xx, always overlong, replaced once complete
					octets, remaining, codepoint = 5, 4, (b&0x3)<<24
				case b>>1 == 0x7E: // 1111110x, always overlong, replaced once complete
					octets, remaining, codepoint = 6, 5, (b&0x1)<<30
				default:
					out.WriteRune(utf8.RuneError)
				}
			} else if b>>6 == 0x2 { // 10xxxxxx
				remaining--
				codepoint |= (b & 0x3F) << (6 * remaining)
				if remaining == 0 {
					out.WriteRune(complete(codepoint, octets))
				}
			} else {
				out.WriteRune(utf8.RuneError)
				remaining = 0
			}
		case '+':
			out.WriteByte(' ')
		default:
			out.WriteRune(c)
		}
	}

	if remaining > 0 {
		out.WriteRune(utf8.RuneError)
	}
	return out.String()
}

// complete validates a fully accumulated sequence (RFC 3629).
func complete(codepoint, octets int) rune {
	switch {
	case codepoint <= 0x7F,
		codepoint <= 0x7FF && octets > 2,
		codepoint <= 0xFFFF && octets > 3,
		codepoint <= maxRune && octets > 4:
		// overlong
		return utf8.RuneError
	case codepoint >= surrLead && codepoint <= surrEnd:
		return utf8.RuneError
	case codepoint > maxRune:
		return utf8.RuneError
	}
	return rune(codepoint)
}
