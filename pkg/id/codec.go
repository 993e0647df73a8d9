// Package id converts 128-bit UUIDs between their byte form, the 36-character
// canonical text, a 22-character base64url text and a 21-character compact
// base64url text, and derives name-based (version 5) UUIDs.
//
// The compact form relies on the two RFC 4122 variant bits always being 1 0:
// dropping them leaves 126 bits, which fill exactly 21 base64url symbols.
// UUIDs of any other variant fall back to the 22-character form.
package id

import (
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/standardbeagle/openenc/internal/encoding"
	codecerr "github.com/standardbeagle/openenc/internal/errors"
)

// Text lengths accepted by FromCompact
const (
	CompactLen   = 21
	FullLen      = 22
	CanonicalLen = 36
	ByteLen      = 16
)

var (
	ErrInvalidLength      = errors.New("uuid must be exactly 16 bytes")
	ErrUnrecognizedFormat = errors.New("not a recognized uuid")
)

var uuidRegex = regexp.MustCompile(`^(?:[A-Za-z0-9_-]{21,22}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// halves splits u into its most and least significant 64 bits.
func halves(u uuid.UUID) (msb, lsb uint64) {
	return binary.BigEndian.Uint64(u[:8]), binary.BigEndian.Uint64(u[8:])
}

func fromHalves(msb, lsb uint64) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], msb)
	binary.BigEndian.PutUint64(u[8:], lsb)
	return u
}

// ToBytes returns the 16-byte big-endian form of u.
func ToBytes(u uuid.UUID) []byte {
	b := make([]byte, ByteLen)
	copy(b, u[:])
	return b
}

// FromBytes builds a UUID from exactly 16 big-endian bytes.
func FromBytes(b []byte) (uuid.UUID, error) {
	if len(b) != ByteLen {
		return uuid.Nil, fmt.Errorf("%w, got %d", ErrInvalidLength, len(b))
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// IsStandardVariant reports whether the variant bits of u are 1 0.
func IsStandardVariant(u uuid.UUID) bool {
	_, lsb := halves(u)
	return lsb>>62 == 2
}

// ToCompact returns the 21-character compact form of a standard variant UUID,
// or the 22-character base64url form of the 16 bytes otherwise.
func ToCompact(u uuid.UUID) string {
	if !IsStandardVariant(u) {
		return encoding.EncodeBase64(u[:])
	}
	msb, lsb := halves(u)

	var out [CompactLen]byte
	// bits 0-59 of the most significant half
	for i := 0; i < 10; i++ {
		out[i] = encoding.Alphabet64[(msb>>(58-6*i))&0x3F]
	}
	// bits 60-63, then bits 66-67; bits 64-65 are the fixed variant
	out[10] = encoding.Alphabet64[((msb&0xF)<<2)|((lsb>>60)&0x3)]
	// bits 68-127
	for i := 0; i < 10; i++ {
		out[11+i] = encoding.Alphabet64[(lsb>>(54-6*i))&0x3F]
	}
	return string(out[:])
}

// FromCompact parses any of the three text forms, chosen by length:
// 21 characters compact, 22 characters base64url, 36 characters canonical.
func FromCompact(s string) (uuid.UUID, error) {
	switch len(s) {
	case CompactLen:
		return decodeCompact(s)
	case FullLen:
		b, err := encoding.DecodeBase64(s)
		if err != nil {
			return uuid.Nil, err
		}
		return FromBytes(b)
	case CanonicalLen:
		u, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
		}
		return u, nil
	}
	return uuid.Nil, fmt.Errorf("%w: length %d", ErrUnrecognizedFormat, len(s))
}

func decodeCompact(s string) (uuid.UUID, error) {
	var v [CompactLen]uint64
	for i := 0; i < CompactLen; i++ {
		b, err := encoding.Value(rune(s[i]))
		if err != nil {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return uuid.Nil, codecerr.NewDecodeError("compact uuid decode", i, r, encoding.ErrInvalidChar)
		}
		v[i] = uint64(b)
	}

	var msb uint64
	for i := 0; i < 10; i++ {
		msb |= v[i] << (58 - 6*i)
	}
	msb |= v[10] >> 2

	// the variant bits were dropped on encode and are always 1 0
	lsb := (0x8 | (v[10] & 0x3)) << 60
	for i := 0; i < 10; i++ {
		lsb |= v[11+i] << (54 - 6*i)
	}
	return fromHalves(msb, lsb), nil
}

// LooksLikeUUID is a cheap shape check run before a full FromCompact.
func LooksLikeUUID(s string) bool {
	if len(s) < CompactLen {
		return false
	}
	return uuidRegex.MatchString(s)
}
