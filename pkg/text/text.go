// Package text holds Unicode text as UTF-8 bytes and converts it to and from
// the string and UTF-16 forms other codecs in this module consume.
//
// Conversion never fails on malformed input: invalid UTF-8 bytes and lone
// UTF-16 surrogates are replaced with U+FFFD.
package text

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Text is an immutable piece of Unicode text. The zero value is empty text.
type Text struct {
	b []byte // always valid UTF-8
}

// Decoders and encoders are stateful, so each conversion builds its own.
var (
	utf8Codec encoding.Encoding = unicode.UTF8
	utf16In   encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16Out  encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// FromString returns s as Text, replacing invalid UTF-8 with U+FFFD.
func FromString(s string) Text {
	b, err := utf8Codec.NewDecoder().Bytes([]byte(s))
	if err != nil {
		// the UTF-8 decoder replaces instead of failing
		panic(fmt.Sprintf("text: utf-8 decode: %v", err))
	}
	return Text{b: b}
}

// FromBytes returns UTF-8 encoded b as Text. Invalid sequences are replaced
// with U+FFFD; b is not retained.
func FromBytes(b []byte) Text {
	out, err := utf8Codec.NewDecoder().Bytes(b)
	if err != nil {
		panic(fmt.Sprintf("text: utf-8 decode: %v", err))
	}
	return Text{b: out}
}

// FromUTF16 decodes UTF-16 bytes. A leading byte order mark selects the
// endianness and is dropped; without one the input is big-endian.
func FromUTF16(b []byte) (Text, error) {
	out, err := utf16In.NewDecoder().Bytes(b)
	if err != nil {
		return Text{}, fmt.Errorf("decode utf-16: %w", err)
	}
	return Text{b: out}, nil
}

// String returns the text as a Go string.
func (t Text) String() string {
	return string(t.b)
}

// Bytes returns a copy of the UTF-8 bytes.
func (t Text) Bytes() []byte {
	return bytes.Clone(t.b)
}

// Len returns the length in UTF-8 bytes.
func (t Text) Len() int {
	return len(t.b)
}

// UTF16 returns the text as big-endian UTF-16 without a byte order mark.
func (t Text) UTF16() []byte {
	out, err := utf16Out.NewEncoder().Bytes(t.b)
	if err != nil {
		// t.b is valid UTF-8, which always has a UTF-16 form
		panic(fmt.Sprintf("text: utf-16 encode: %v", err))
	}
	return out
}

// Equal reports whether both hold the same code points.
func (t Text) Equal(other Text) bool {
	return bytes.Equal(t.b, other.b)
}

// WriteTo writes the UTF-8 bytes to w.
func (t Text) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.b)
	return int64(n), err
}

func (t Text) MarshalText() ([]byte, error) {
	return t.Bytes(), nil
}

func (t *Text) UnmarshalText(data []byte) error {
	*t = FromBytes(data)
	return nil
}
