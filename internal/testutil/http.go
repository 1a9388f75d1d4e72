// Package testutil provides shared test helpers for multihook tests.
package testutil

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

// NoProxyClient returns an HTTP client that doesn't use any proxy, so tests
// reach a local listener even when HTTP_PROXY is set.
func NoProxyClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy: nil,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}

// Post sends body to url with the given headers and returns the status code
// and response body. It fails the test on transport errors.
func Post(t testing.TB, url string, body []byte, header http.Header) (int, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("http.NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := NoProxyClient().Do(req)
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp.StatusCode, string(data)
}
