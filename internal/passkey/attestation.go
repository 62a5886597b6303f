package passkey

import (
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/passkey/cbor"
)

// parseAttestationObject decodes the top-level CBOR map of an attestation
// object into its three named fields (spec §4.8 registration-finish step 3).
func parseAttestationObject(b []byte) (format string, authData []byte, attStmt cbor.Map, err error) {
	v, rest, err := cbor.Decode(b)
	if err != nil {
		return "", nil, nil, fmt.Errorf("attestationObject: %w", err)
	}
	if len(rest) != 0 {
		return "", nil, nil, fmt.Errorf("attestationObject: %d trailing bytes", len(rest))
	}
	m, ok := v.(cbor.Map)
	if !ok {
		return "", nil, nil, fmt.Errorf("attestationObject: not a map")
	}

	format, ok = cbor.AsString(m["fmt"])
	if !ok {
		return "", nil, nil, fmt.Errorf("attestationObject: missing fmt")
	}
	authData, ok = cbor.AsBytes(m["authData"])
	if !ok {
		return "", nil, nil, fmt.Errorf("attestationObject: missing authData")
	}
	attStmt, _ = m["attStmt"].(cbor.Map) // absent/empty for fmt=="none"
	return format, authData, attStmt, nil
}

// verifyPackedSelfAttestation checks a "packed" self-attestation statement:
// the signature in attStmt must validate against the credential's own
// public key over authData ‖ sha256(clientDataJSON) (spec §4.8 step 7).
// Only the self-attestation case (no x5c trust chain) is supported; a
// statement naming a certificate chain returns an error, which
// FinishRegistration reports as Verification.
func verifyPackedSelfAttestation(attStmt cbor.Map, spki []byte, alg int64, signedData []byte) error {
	if _, hasChain := attStmt["x5c"]; hasChain {
		return fmt.Errorf("packed attestation with a certificate chain is not supported")
	}
	stmtAlg, ok := cbor.AsInt64(attStmt["alg"])
	if !ok {
		return fmt.Errorf("packed attestation: missing alg")
	}
	if stmtAlg != alg {
		return fmt.Errorf("packed attestation: alg %d does not match credential alg %d", stmtAlg, alg)
	}
	sig, ok := cbor.AsBytes(attStmt["sig"])
	if !ok {
		return fmt.Errorf("packed attestation: missing sig")
	}
	return verifySignatureForAlg(spki, alg, signedData, sig)
}
