package secret

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/xdg/multihook/internal/mlog"
)

// Signature header names sent by common git hosting services.
const (
	HeaderForgejoSignature = "X-Forgejo-Signature"
	HeaderGiteaSignature   = "X-Gitea-Signature"
	HeaderGogsSignature    = "X-Gogs-Signature"
	HeaderHubSignature256  = "X-Hub-Signature-256"
)

// SignatureHeaders lists the headers the generic HMAC validator accepts,
// in lookup order.
var SignatureHeaders = []string{
	HeaderForgejoSignature,
	HeaderGiteaSignature,
	HeaderGogsSignature,
	HeaderHubSignature256,
}

const signaturePrefix = "sha256="

// HMACValidator verifies a hex HMAC-SHA256 of the raw body carried in the
// first present header of Headers. An optional "sha256=" prefix is stripped.
type HMACValidator struct {
	Headers []string
}

// Validate implements Validator.
func (v HMACValidator) Validate(headers http.Header, body, secret []byte) bool {
	var signature string
	found := false
	for _, name := range v.Headers {
		if signature, found = lookupHeader(headers, name); found {
			mlog.Debug("secret: verifying signature from %s", name)
			break
		}
	}
	if !found {
		mlog.Warn("secret: missing signature header")
		return false
	}

	if !utf8.ValidString(signature) {
		mlog.Warn("secret: signature header is not valid UTF-8")
		return false
	}

	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), signaturePrefix))
	if err != nil {
		mlog.Warn("secret: signature is not valid hex: %v", err)
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), decoded)
}

// Sign returns the "sha256=<hex>" signature a sender would attach to body.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
