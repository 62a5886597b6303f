package jwtverify

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"math/big"
)

// marshalPKIX encodes a *rsa.PublicKey or *ecdsa.PublicKey (as decoded by
// gopkg.in/square/go-jose.v2 from a JWK) into the SubjectPublicKeyInfo form
// pkg/crypto's verifiers expect.
func marshalPKIX(pub interface{}) ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pub)
}

// es256JoseToASN1 converts the raw R||S (32 + 32 bytes) ES256 JWS signature
// encoding (RFC 7518 §3.4) into the ASN.1 DER Ecdsa-Sig-Value form that
// pkg/crypto.ECDSAP256Verify (and crypto/ecdsa.VerifyASN1) expects.
func es256JoseToASN1(sig []byte) ([]byte, error) {
	if len(sig) != 64 {
		return nil, fmt.Errorf("es256: unexpected signature length %d", len(sig))
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])

	type ecdsaSig struct{ R, S *big.Int }
	return asn1.Marshal(ecdsaSig{R: r, S: s})
}
