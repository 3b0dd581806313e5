package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// Header names PayArc deliveries have been seen using.
var signatureHeaders = []string{
	"Payarc-Signature",
	"X-Payarc-Signature",
	"X-Webhook-Signature",
	"X-Signature",
}

// verifySignature checks an HMAC-SHA256 hex signature over the raw body
// against every accepted header, tolerating a "sha256=" prefix and either
// hex case. Comparison is constant-time.
func verifySignature(headers http.Header, body []byte, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, name := range signatureHeaders {
		v := headers.Get(name)
		if v == "" {
			continue
		}
		candidates := []string{v, strings.TrimPrefix(v, "sha256=")}
		for _, cand := range candidates {
			if hmac.Equal([]byte(cand), []byte(expected)) {
				return true
			}
			if hmac.Equal([]byte(strings.ToLower(cand)), []byte(expected)) {
				return true
			}
		}
	}
	return false
}
