package passkey

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/passkey/cbor"
)

// flags decodes the single authData flags byte, per spec §4.8's bit
// assignment: UP(0), UV(2), BE(3) "discoverable", BS(4), AT(6), ED(7).
type flags byte

func (f flags) userPresent() bool          { return byte(f)&(1<<0) != 0 }
func (f flags) userVerified() bool         { return byte(f)&(1<<2) != 0 }
func (f flags) backupEligible() bool       { return byte(f)&(1<<3) != 0 } // "discoverable" per spec's chosen reading
func (f flags) backedUp() bool             { return byte(f)&(1<<4) != 0 }
func (f flags) attestedCredentialData() bool { return byte(f)&(1<<6) != 0 }
func (f flags) extensionsPresent() bool    { return byte(f)&(1<<7) != 0 }

// authDataHeader is the fixed 37-byte prefix common to both registration
// and authentication authData (spec §4.8 steps 4 / §4.8 authentication
// step 3): RP ID hash, flags, counter.
type authDataHeader struct {
	RPIDHash [32]byte
	Flags    flags
	Counter  uint32
}

func parseAuthDataHeader(b []byte) (authDataHeader, []byte, error) {
	if len(b) < 37 {
		return authDataHeader{}, nil, fmt.Errorf("authData: too short (%d bytes, need >= 37)", len(b))
	}
	var h authDataHeader
	copy(h.RPIDHash[:], b[:32])
	h.Flags = flags(b[32])
	h.Counter = binary.BigEndian.Uint32(b[33:37])
	return h, b[37:], nil
}

// attestedCredentialData is the variable-length block present in
// registration authData when the AT flag is set (spec §4.8 step 4):
// AAGUID, credential ID, and the COSE public key.
type attestedCredentialData struct {
	AAGUID       [16]byte
	CredentialID []byte
	PublicKeySPKI []byte
	Algorithm    int64
}

func parseAttestedCredentialData(b []byte) (attestedCredentialData, error) {
	if len(b) < 16+2 {
		return attestedCredentialData{}, fmt.Errorf("authData: truncated attested credential data")
	}
	var cd attestedCredentialData
	copy(cd.AAGUID[:], b[:16])
	b = b[16:]

	credIDLen := binary.BigEndian.Uint16(b[:2])
	b = b[2:]
	if len(b) < int(credIDLen) {
		return attestedCredentialData{}, fmt.Errorf("authData: truncated credential id")
	}
	cd.CredentialID = append([]byte{}, b[:credIDLen]...)
	b = b[credIDLen:]

	coseKey, rest, err := cbor.Decode(b)
	if err != nil {
		return attestedCredentialData{}, fmt.Errorf("authData: decode COSE key: %w", err)
	}
	m, ok := coseKey.(cbor.Map)
	if !ok {
		return attestedCredentialData{}, fmt.Errorf("authData: COSE key is not a map")
	}
	spki, alg, err := coseKeyToSPKI(m)
	if err != nil {
		return attestedCredentialData{}, err
	}
	cd.PublicKeySPKI = spki
	cd.Algorithm = alg

	// rest would hold extension bytes, unused by this engine.
	_ = rest
	return cd, nil
}

func aaguidString(a [16]byte) string {
	return hex.EncodeToString(a[:])
}
