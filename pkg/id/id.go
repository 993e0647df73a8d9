package id

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// CBORTagUUID is the IANA registered CBOR tag for a binary UUID.
const CBORTagUUID = 37

// encMode uses Core Deterministic Encoding so equal IDs always
// produce identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("id: CBOR encoder initialization failed: " + err.Error())
	}
}

// ID is a UUID with its compact text, byte and URI views.
//
// Encoding: text (JSON, YAML, flags) uses the 21-character compact form via
// encoding.TextMarshaler. CBOR uses tag 37 around the 16-byte string.
type ID struct {
	u      uuid.UUID
	source string
}

// New wraps a UUID.
func New(u uuid.UUID) ID {
	return ID{u: u}
}

// Parse reads any of the compact, base64url or canonical text forms.
func Parse(s string) (ID, error) {
	u, err := FromCompact(s)
	if err != nil {
		return ID{}, err
	}
	return ID{u: u}, nil
}

// ParseBytes reads the 16-byte form.
func ParseBytes(b []byte) (ID, error) {
	u, err := FromBytes(b)
	if err != nil {
		return ID{}, err
	}
	return ID{u: u}, nil
}

// ParseURI maps a URI to an ID and remembers the URI it came from.
func ParseURI(raw string) (ID, error) {
	u, err := URIToUUID(raw)
	if err != nil {
		return ID{}, err
	}
	return ID{u: u, source: raw}, nil
}

// ParseAny treats s as a URI when it contains a colon and as UUID text
// otherwise. Surrounding whitespace is ignored.
func ParseAny(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return ParseURI(s)
	}
	return Parse(s)
}

// UUID returns the underlying UUID.
func (i ID) UUID() uuid.UUID { return i.u }

// Bytes returns the 16-byte form.
func (i ID) Bytes() []byte { return ToBytes(i.u) }

// String returns the compact text form.
func (i ID) String() string { return ToCompact(i.u) }

// URI always returns the urn:uuid: form.
func (i ID) URI() string { return ToURI(i.u) }

// SourceURI returns the URI passed to ParseURI, or "" for other IDs.
func (i ID) SourceURI() string { return i.source }

// IsZero reports whether this is the nil UUID.
func (i ID) IsZero() bool { return i.u == uuid.Nil }

// Equal compares the UUIDs, ignoring how either ID was constructed.
func (i ID) Equal(other ID) bool { return i.u == other.u }

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(ToCompact(i.u)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return fmt.Errorf("invalid ID text: %w", err)
	}
	*i = parsed
	return nil
}

// MarshalCBOR implements cbor.Marshaler. Encodes tag 37 wrapping a
// 16-byte string, 19 bytes on the wire.
func (i ID) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(cbor.Tag{Number: CBORTagUUID, Content: i.u[:]})
}

// UnmarshalCBOR implements cbor.Unmarshaler. Accepts tag 37 or a bare
// 16-byte string.
func (i *ID) UnmarshalCBOR(data []byte) error {
	var v any
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid ID CBOR: %w", err)
	}

	var raw []byte
	switch t := v.(type) {
	case cbor.Tag:
		if t.Number != CBORTagUUID {
			return fmt.Errorf("invalid ID CBOR: unexpected tag %d", t.Number)
		}
		b, ok := t.Content.([]byte)
		if !ok {
			return fmt.Errorf("invalid ID CBOR: tag content is %T", t.Content)
		}
		raw = b
	case []byte:
		raw = t
	default:
		return fmt.Errorf("invalid ID CBOR: unexpected %T", v)
	}

	u, err := FromBytes(raw)
	if err != nil {
		return fmt.Errorf("invalid ID CBOR: %w", err)
	}
	*i = ID{u: u}
	return nil
}
