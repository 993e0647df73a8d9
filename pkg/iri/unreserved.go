// Package iri percent-encodes and decodes Unicode text so it can be embedded
// in IRIs (RFC 3987) and, after encoding, in plain URIs (RFC 3986).
//
// Characters in the IRI "iunreserved" class pass through unchanged; every
// other code point is written as the %XX escapes of its UTF-8 bytes, with
// uppercase hex digits. Decoding is lenient: malformed escapes and invalid
// UTF-8 sequences become U+FFFD instead of failing.
package iri

// IsUnreserved reports whether r is in the RFC 3987 iunreserved class:
// ALPHA / DIGIT / "-" / "." / "_" / "~" / ucschar.
func IsUnreserved(r rune) bool {
	switch {
	case r < 0x80:
		return r >= 'a' && r <= 'z' ||
			r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' ||
			r == '-' || r == '.' || r == '_' || r == '~'
	case r < 0x10000:
		return r >= 0xA0 && r <= 0xD7FF ||
			r >= 0xF900 && r <= 0xFDCF ||
			r >= 0xFDF0 && r <= 0xFFEF
	case r <= 0xEFFFD:
		// ucschar covers each supplementary plane up to xFFFD, except
		// that plane 14 starts at xE1000
		if r>>16 == 0xE && r < 0xE1000 {
			return false
		}
		return r&0xFFFF <= 0xFFFD
	default:
		return false
	}
}
