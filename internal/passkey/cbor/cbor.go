// Package cbor implements a narrow CBOR (RFC 8949) decoder: just enough of
// the major-type grammar to parse WebAuthn attestation objects and COSE
// keys (unsigned/negative integers, byte strings, text strings, arrays,
// maps, and the simple values false/true/null/undefined; kty ∈ {EC2, RSA},
// alg ∈ {ES256, RS256}). Tags are skipped and the tagged item is returned;
// floats and indefinite-length items are not implemented, grounded on go-passkeys' own scoped-down
// webauthn/internal/cbor decoder (same rationale: full CBOR is unneeded for
// a relying party that only ever reads what a conforming authenticator
// writes).
package cbor

import (
	"encoding/binary"
	"fmt"
)

// Map is a decoded CBOR map keyed by whatever scalar type its keys decoded
// to — string for text-string keys (attestation object), int64 for
// integer keys (COSE keys).
type Map map[interface{}]interface{}

// Decode parses a single CBOR data item from the front of b and returns its
// decoded Go value plus the remaining, unconsumed bytes.
//
// Value types returned: uint64, int64, []byte, string, []interface{}, Map,
// bool, and nil (for null and undefined).
func Decode(b []byte) (interface{}, []byte, error) {
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("cbor: unexpected end of data")
	}
	major := b[0] >> 5
	info := b[0] & 0x1f

	switch major {
	case 0: // unsigned int
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		return n, rest, nil
	case 1: // negative int
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		return -1 - int64(n), rest, nil
	case 2: // byte string
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		if uint64(len(rest)) < n {
			return nil, nil, fmt.Errorf("cbor: byte string truncated")
		}
		return append([]byte{}, rest[:n]...), rest[n:], nil
	case 3: // text string
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		if uint64(len(rest)) < n {
			return nil, nil, fmt.Errorf("cbor: text string truncated")
		}
		return string(rest[:n]), rest[n:], nil
	case 4: // array
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		items := make([]interface{}, 0, n)
		for i := uint64(0); i < n; i++ {
			var item interface{}
			item, rest, err = Decode(rest)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
		}
		return items, rest, nil
	case 5: // map
		n, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		m := make(Map, n)
		for i := uint64(0); i < n; i++ {
			var key, val interface{}
			key, rest, err = Decode(rest)
			if err != nil {
				return nil, nil, err
			}
			val, rest, err = Decode(rest)
			if err != nil {
				return nil, nil, err
			}
			m[normalizeKey(key)] = val
		}
		return m, rest, nil
	case 6: // tag: decode and discard the tag number, return the tagged value
		_, rest, err := readArgument(b, info)
		if err != nil {
			return nil, nil, err
		}
		return Decode(rest)
	case 7:
		switch info {
		case 20:
			return false, b[1:], nil
		case 21:
			return true, b[1:], nil
		case 22, 23:
			return nil, b[1:], nil
		default:
			return nil, nil, fmt.Errorf("cbor: unsupported simple/float value (info=%d)", info)
		}
	default:
		return nil, nil, fmt.Errorf("cbor: unsupported major type %d", major)
	}
}

// normalizeKey folds uint64 map keys down to int64 so COSE key lookups
// (which use small negative and positive integer labels) can use a single
// int64 key type regardless of sign.
func normalizeKey(k interface{}) interface{} {
	if u, ok := k.(uint64); ok {
		return int64(u)
	}
	return k
}

// readArgument decodes the CBOR "argument" that follows a major-type byte:
// either the low 5 bits directly (info < 24), or a following 1/2/4/8-byte
// big-endian integer (info 24..27).
func readArgument(b []byte, info byte) (uint64, []byte, error) {
	rest := b[1:]
	switch {
	case info < 24:
		return uint64(info), rest, nil
	case info == 24:
		if len(rest) < 1 {
			return 0, nil, fmt.Errorf("cbor: truncated 1-byte argument")
		}
		return uint64(rest[0]), rest[1:], nil
	case info == 25:
		if len(rest) < 2 {
			return 0, nil, fmt.Errorf("cbor: truncated 2-byte argument")
		}
		return uint64(binary.BigEndian.Uint16(rest[:2])), rest[2:], nil
	case info == 26:
		if len(rest) < 4 {
			return 0, nil, fmt.Errorf("cbor: truncated 4-byte argument")
		}
		return uint64(binary.BigEndian.Uint32(rest[:4])), rest[4:], nil
	case info == 27:
		if len(rest) < 8 {
			return 0, nil, fmt.Errorf("cbor: truncated 8-byte argument")
		}
		return binary.BigEndian.Uint64(rest[:8]), rest[8:], nil
	default:
		return 0, nil, fmt.Errorf("cbor: indefinite-length items are not supported (info=%d)", info)
	}
}

// AsBytes type-asserts a decoded value as a byte string.
func AsBytes(v interface{}) ([]byte, bool) {
	b, ok := v.([]byte)
	return b, ok
}

// AsString type-asserts a decoded value as a text string.
func AsString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsInt64 type-asserts a decoded value as a CBOR integer, accepting both
// unsigned and negative representations.
func AsInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	}
	return 0, false
}
