package secret

import (
	"crypto/subtle"
	"net/http"

	"github.com/xdg/multihook/internal/mlog"
)

// HeaderGitLabToken carries GitLab's plain shared token.
const HeaderGitLabToken = "X-Gitlab-Token" //nolint:gosec // G101: header name, not a credential

// TokenValidator compares a header value with the secret in constant time.
type TokenValidator struct {
	Header string
}

// Validate implements Validator.
func (v TokenValidator) Validate(headers http.Header, _, secret []byte) bool {
	token, ok := lookupHeader(headers, v.Header)
	if !ok {
		mlog.Warn("secret: missing %s header", v.Header)
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), secret) == 1
}
