// Package secret authenticates webhook requests against a shared secret.
//
// Each Format names a sender convention and resolves to a Validator. Adding a
// vendor means adding a Format constant and its Validator; callers only ever
// see the Validator interface.
package secret

import (
	"fmt"
	"net/http"
	"strings"
)

// Validator checks a request against a shared secret.
type Validator interface {
	// Validate reports whether the headers carry a valid signature (or token)
	// for body under secret. Any malformed input yields false.
	Validate(headers http.Header, body, secret []byte) bool
}

// Format identifies a signature convention.
type Format int

const (
	// FormatHMAC accepts a hex HMAC-SHA256 in any of the signature headers
	// used by GitHub, Gitea, Forgejo and Gogs.
	FormatHMAC Format = iota + 1
	// FormatGitHub accepts only X-Hub-Signature-256.
	FormatGitHub
	// FormatGitLab compares the X-Gitlab-Token header with the secret.
	FormatGitLab
)

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hmac", "hmac-sha256", "sha256":
		return FormatHMAC, nil
	case "github":
		return FormatGitHub, nil
	case "gitlab":
		return FormatGitLab, nil
	default:
		return 0, fmt.Errorf("unknown secret format %q (want hmac, github or gitlab)", s)
	}
}

// String returns the canonical lowercase name.
func (f Format) String() string {
	switch f {
	case FormatHMAC:
		return "hmac"
	case FormatGitHub:
		return "github"
	case FormatGitLab:
		return "gitlab"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Validator returns the strategy for f. Unknown formats reject everything.
func (f Format) Validator() Validator {
	switch f {
	case FormatHMAC:
		return HMACValidator{Headers: SignatureHeaders}
	case FormatGitHub:
		return HMACValidator{Headers: []string{HeaderHubSignature256}}
	case FormatGitLab:
		return TokenValidator{Header: HeaderGitLabToken}
	default:
		return rejectAll{}
	}
}

// Config is an endpoint's shared secret and the convention used to check it.
type Config struct {
	Value  string
	Format Format
}

// Validate runs the configured validator.
func (c Config) Validate(headers http.Header, body []byte) bool {
	return c.Format.Validator().Validate(headers, body, []byte(c.Value))
}

type rejectAll struct{}

func (rejectAll) Validate(http.Header, []byte, []byte) bool { return false }

// lookupHeader returns the first value of name, matched case-insensitively
// even when headers were built without canonical keys.
func lookupHeader(headers http.Header, name string) (string, bool) {
	if values := headers.Values(name); len(values) > 0 {
		return values[0], true
	}
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}
