// Package binary provides an immutable byte value with a padding-free
// base64url text view. It delegates to internal/encoding for the bit packing.
//
// Base64url Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), - (62), _ (63)
package binary

import (
	"bytes"

	"github.com/standardbeagle/openenc/internal/encoding"
)

// Re-export constants from encoding package for convenience
const (
	Base     = encoding.Base64
	Alphabet = encoding.Alphabet64
)

// Re-export errors from encoding package for use with errors.Is
var (
	ErrInvalidChar    = encoding.ErrInvalidChar
	ErrInvalidPadding = encoding.ErrInvalidPadding
)

// Binary is an immutable byte sequence viewable as bytes or base64url text.
// The zero value is the empty sequence.
type Binary struct {
	b []byte
}

// FromBytes returns a Binary holding a copy of b.
func FromBytes(b []byte) Binary {
	return Binary{b: bytes.Clone(b)}
}

// Parse decodes base64url text into a Binary.
func Parse(s string) (Binary, error) {
	b, err := encoding.DecodeBase64(s)
	if err != nil {
		return Binary{}, err
	}
	return Binary{b: b}, nil
}

// IsBinary reports whether s is a canonical base64url encoding.
// Delegates to encoding.IsBase64.
func IsBinary(s string) bool {
	return encoding.IsBase64(s)
}

// Encode encodes bytes to base64url text.
// Delegates to encoding.EncodeBase64.
func Encode(b []byte) string {
	return encoding.EncodeBase64(b)
}

// Decode decodes base64url text to bytes.
// Delegates to encoding.DecodeBase64.
func Decode(s string) ([]byte, error) {
	return encoding.DecodeBase64(s)
}

// Bytes returns a copy of the byte view.
func (b Binary) Bytes() []byte {
	return bytes.Clone(b.b)
}

// Len returns the number of bytes.
func (b Binary) Len() int {
	return len(b.b)
}

// Equal reports whether both values hold the same bytes.
func (b Binary) Equal(other Binary) bool {
	return bytes.Equal(b.b, other.b)
}

// String returns the base64url view.
func (b Binary) String() string {
	return encoding.EncodeBase64(b.b)
}

// AppendText implements encoding.TextAppender.
func (b Binary) AppendText(dst []byte) ([]byte, error) {
	return encoding.AppendBase64(dst, b.b), nil
}

// MarshalText implements encoding.TextMarshaler.
func (b Binary) MarshalText() ([]byte, error) {
	return b.AppendText(nil)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Binary) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
