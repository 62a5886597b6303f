// Package crypto provides the low-level cryptographic primitives the engine
// builds on: secure randomness, HMAC/SHA-256, base64url, and the raw
// signature verifiers needed for ID tokens (RS256) and WebAuthn assertions
// (ES256). These are deliberately thin wrappers over the standard library —
// no third-party library in the pack offers byte-level SPKI/ASN.1 signature
// verification at this level (the closest, go-passkeys' webauthn.go, reaches
// for crypto/ecdsa and crypto/rsa directly too; see DESIGN.md).
package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

// Error is the flat error kind for this package, per spec §4.1.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Random returns n cryptographically secure random bytes.
func Random(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, wrap("random", err)
	}
	return buf, nil
}

// HMACSHA256 computes HMAC-SHA256(key, msg).
func HMACSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// VerifyHMACSHA256 performs a constant-time comparison of a computed
// HMAC-SHA256 against an expected value. Secret material is never compared
// with a timing-variable operation.
func VerifyHMACSHA256(key, msg, expected []byte) bool {
	computed := HMACSHA256(key, msg)
	return hmac.Equal(computed, expected) && subtle.ConstantTimeCompare(computed, expected) == 1
}

// SHA256 computes SHA-256(msg).
func SHA256(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}

// B64URLEncode encodes without padding, per RFC 4648 §5.
func B64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// B64URLDecode decodes an unpadded base64url string.
func B64URLDecode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, wrap("b64url_decode", err)
	}
	return b, nil
}

// ECDSAP256Verify verifies an ASN.1 DER-encoded ECDSA signature over msg
// using a SubjectPublicKeyInfo-encoded P-256 public key.
func ECDSAP256Verify(spki, msg, sigASN1 []byte) error {
	pub, err := x509.ParsePKIXPublicKey(spki)
	if err != nil {
		return wrap("ecdsa_p256_verify", fmt.Errorf("malformed key: %w", err))
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return wrap("ecdsa_p256_verify", errors.New("not an ECDSA public key"))
	}
	digest := sha256.Sum256(msg)
	if !ecdsa.VerifyASN1(ecPub, digest[:], sigASN1) {
		return wrap("ecdsa_p256_verify", errors.New("signature verification failed"))
	}
	return nil
}

// RSAVerifyPKCS1SHA256 verifies an RS256 (RSASSA-PKCS1-v1_5 with SHA-256)
// signature, used for RS256 ID tokens.
func RSAVerifyPKCS1SHA256(spki, msg, sig []byte) error {
	pub, err := x509.ParsePKIXPublicKey(spki)
	if err != nil {
		return wrap("rsa_verify_pkcs1_sha256", fmt.Errorf("malformed key: %w", err))
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return wrap("rsa_verify_pkcs1_sha256", errors.New("not an RSA public key"))
	}
	digest := sha256.Sum256(msg)
	if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, digest[:], sig); err != nil {
		return wrap("rsa_verify_pkcs1_sha256", fmt.Errorf("signature verification failed: %w", err))
	}
	return nil
}
