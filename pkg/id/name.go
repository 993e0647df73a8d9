package id

import (
	"crypto"
	_ "crypto/sha1" // registers crypto.SHA1 for the default Generator
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ErrDigestUnavailable reports a digest that is not linked into the binary.
// It signals a build or configuration problem rather than bad input.
var ErrDigestUnavailable = errors.New("message digest unavailable")

// Name supplies the payload hashed after the namespace bytes.
type Name interface {
	WriteName(w io.Writer)
}

// NameBytes is a raw byte payload.
type NameBytes []byte

func (n NameBytes) WriteName(w io.Writer) { _, _ = w.Write(n) }

// NameString is a text payload, hashed as its UTF-8 bytes.
type NameString string

func (n NameString) WriteName(w io.Writer) { _, _ = io.WriteString(w, string(n)) }

// NameFunc adapts a function to Name.
type NameFunc func(w io.Writer)

func (f NameFunc) WriteName(w io.Writer) { f(w) }

// Generator derives name-based UUIDs. The zero value uses SHA-1, giving
// RFC 4122 version 5; MD5 gives version 3. Any other registered digest of at
// least 16 bytes may be substituted and is stamped version 5, which no RFC
// defines for it.
type Generator struct {
	Hash crypto.Hash
}

// New hashes namespace || name and stamps the version and variant bits
// onto the first 16 bytes of the digest.
func (g Generator) New(namespace uuid.UUID, name Name) (uuid.UUID, error) {
	h := g.Hash
	if h == 0 {
		h = crypto.SHA1
	}
	if !h.Available() {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrDigestUnavailable, h)
	}
	digest := h.New()
	if digest.Size() < ByteLen {
		return uuid.Nil, fmt.Errorf("%w: %v produces %d bytes", ErrDigestUnavailable, h, digest.Size())
	}

	digest.Write(namespace[:])
	name.WriteName(digest)
	sum := digest.Sum(nil)

	var u uuid.UUID
	copy(u[:], sum[:ByteLen])
	version := byte(5)
	if h == crypto.MD5 {
		version = 3
	}
	u[6] = (u[6] & 0x0F) | version<<4
	u[8] = (u[8] & 0x3F) | 0x80 // variant 1 0
	return u, nil
}

// NameUUID returns the version 5 UUID for namespace and name.
// Panics if SHA-1 is unavailable, which cannot happen in a normal build.
func NameUUID(namespace uuid.UUID, name Name) uuid.UUID {
	u, err := Generator{}.New(namespace, name)
	if err != nil {
		panic(fmt.Sprintf("id: %v", err))
	}
	return u
}
