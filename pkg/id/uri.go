package id

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// NamespaceURL is the RFC 4122 name space for URLs.
var NamespaceURL = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// ErrInvalidURI reports text that does not parse as a URI reference.
var ErrInvalidURI = errors.New("invalid uri")

const urnPrefix = "urn:uuid:"

// URIToUUID maps a URI to a UUID. A urn:uuid: URI yields the UUID it names,
// which must be in canonical 36-character form; any other URI yields the
// version 5 UUID of its text in NamespaceURL. The scheme is matched
// case-sensitively, so "URN:uuid:..." is hashed like any other URI.
func URIToUUID(raw string) (uuid.UUID, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	// url.Parse lowercases the scheme
	if strings.HasPrefix(raw, "urn:") && strings.HasPrefix(u.Opaque, "uuid:") {
		s := strings.TrimPrefix(u.Opaque, "uuid:")
		if len(s) != CanonicalLen {
			return uuid.Nil, fmt.Errorf("%w: urn:uuid: needs the %d-character form, got %d characters", ErrUnrecognizedFormat, CanonicalLen, len(s))
		}
		parsed, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
		}
		return parsed, nil
	}
	return NameUUID(NamespaceURL, NameString(raw)), nil
}

// ToURI returns the urn:uuid: form of u. It does not recover the URI a
// name-based UUID was derived from.
func ToURI(u uuid.UUID) string {
	return urnPrefix + u.String()
}
