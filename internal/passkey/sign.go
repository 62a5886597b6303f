package passkey

import (
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
)

// verifySignatureForAlg dispatches to the C1 primitive matching a
// credential's COSE algorithm. WebAuthn signatures are already ASN.1 DER
// (unlike JOSE's raw R‖S ECDSA encoding), so no reformatting is needed
// before handing them to pkg/crypto.
func verifySignatureForAlg(spki []byte, alg int64, signedData, sig []byte) error {
	switch alg {
	case coseAlgES256:
		return crypto.ECDSAP256Verify(spki, signedData, sig)
	case coseAlgRS256:
		return crypto.RSAVerifyPKCS1SHA256(spki, signedData, sig)
	default:
		return fmt.Errorf("passkey: unsupported signature algorithm %d", alg)
	}
}
