package passkey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"math/big"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/passkey/cbor"
)

// COSE key-type and algorithm labels used by EC2 (P-256) and RSA
// credentials, per RFC 9052 §7 / RFC 8152 table 21.
const (
	coseKtyLabel = int64(1)
	coseAlgLabel = int64(3)

	coseKtyEC2 = int64(2)
	coseKtyRSA = int64(3)

	coseCrvLabel = int64(-1)
	coseXLabel   = int64(-2)
	coseYLabel   = int64(-3)

	coseRSANLabel = int64(-1)
	coseRSAELabel = int64(-2)

	coseCrvP256 = int64(1)

	coseAlgES256 = int64(-7)
	coseAlgRS256 = int64(-257)
)

// coseKeyToSPKI converts a CBOR-decoded COSE_Key map into a DER-encoded
// SubjectPublicKeyInfo, the form pkg/crypto's verifiers and the DataStore's
// PublicKey column expect. Only EC2/P-256 (ES256, required by spec §4.8)
// and RSA (RS256, optional) are supported — any other kty/alg combination
// returns an error, which FinishRegistration reports as AuthenticatorData.
func coseKeyToSPKI(m cbor.Map) ([]byte, int64, error) {
	kty, ok := cbor.AsInt64(m[coseKtyLabel])
	if !ok {
		return nil, 0, fmt.Errorf("cose: missing kty")
	}
	alg, ok := cbor.AsInt64(m[coseAlgLabel])
	if !ok {
		return nil, 0, fmt.Errorf("cose: missing alg")
	}

	switch kty {
	case coseKtyEC2:
		if alg != coseAlgES256 {
			return nil, alg, fmt.Errorf("cose: unsupported EC2 alg %d", alg)
		}
		crv, ok := cbor.AsInt64(m[coseCrvLabel])
		if !ok || crv != coseCrvP256 {
			return nil, alg, fmt.Errorf("cose: unsupported EC2 curve %v", m[coseCrvLabel])
		}
		x, ok := cbor.AsBytes(m[coseXLabel])
		if !ok {
			return nil, alg, fmt.Errorf("cose: missing EC2 x coordinate")
		}
		y, ok := cbor.AsBytes(m[coseYLabel])
		if !ok {
			return nil, alg, fmt.Errorf("cose: missing EC2 y coordinate")
		}
		pub := &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}
		spki, err := x509.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, alg, fmt.Errorf("cose: marshal EC2 key: %w", err)
		}
		return spki, alg, nil

	case coseKtyRSA:
		if alg != coseAlgRS256 {
			return nil, alg, fmt.Errorf("cose: unsupported RSA alg %d", alg)
		}
		n, ok := cbor.AsBytes(m[coseRSANLabel])
		if !ok {
			return nil, alg, fmt.Errorf("cose: missing RSA modulus")
		}
		e, ok := cbor.AsBytes(m[coseRSAELabel])
		if !ok {
			return nil, alg, fmt.Errorf("cose: missing RSA exponent")
		}
		pub := &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}
		spki, err := x509.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, alg, fmt.Errorf("cose: marshal RSA key: %w", err)
		}
		return spki, alg, nil

	default:
		return nil, alg, fmt.Errorf("cose: unsupported kty %d", kty)
	}
}
