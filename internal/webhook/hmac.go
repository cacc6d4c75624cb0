package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// extractSignature pulls the claimed signature from the request. When
// headerName is empty the "signature" query parameter is used, which is
// where PandaDoc puts it.
func extractSignature(r *http.Request, headerName string) string {
	if headerName != "" {
		return r.Header.Get(headerName)
	}
	return r.URL.Query().Get("signature")
}

// verifyHMACSignature verifies an HMAC-SHA256 signature against the request body.
//
// This function uses constant-time comparison (crypto/subtle) to prevent
// timing attacks. It accepts the plain hex digest PandaDoc sends as well as
// the "sha256=<hex>" prefix form some proxies rewrite it into.
//
// Returns nil if signature is valid, error otherwise.
// All errors are generic to prevent information leakage.
func verifyHMACSignature(body []byte, signature, secret string) error {
	if secret == "" {
		return fmt.Errorf("webhook verification failed")
	}

	if signature == "" {
		return fmt.Errorf("webhook verification failed")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	claimedMAC, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		// Generic error - don't leak format details
		return fmt.Errorf("webhook verification failed")
	}

	if subtle.ConstantTimeCompare(expectedMAC, claimedMAC) != 1 {
		return fmt.Errorf("webhook verification failed")
	}

	return nil
}

// computeSignature computes the hex HMAC-SHA256 signature for a body.
// Used for testing and validation.
func computeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
