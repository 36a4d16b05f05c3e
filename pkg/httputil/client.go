// Package httputil is the shared HTTP plumbing for calls to the remote
// detector: one pooled transport, timeout-tiered clients, size-bounded
// response reads, and a semaphore bounding in-flight calls.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize bounds how much of a detector response body is read.
// A compromised or misbehaving detector must not be able to OOM the
// gateway with an unbounded body.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

// One transport for every outbound call, so TCP connections to the
// detector are pooled and reused across requests.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          64,
	MaxIdleConnsPerHost:   8,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier selects an overall client timeout for an outbound call.
type TimeoutTier int

const (
	// TierStandard for ordinary detector scoring calls (30s).
	TierStandard TimeoutTier = iota
	// TierExtended for large media uploads that legitimately take
	// longer to transfer and score (60s).
	TierExtended
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierStandard: 30 * time.Second,
	TierExtended: 60 * time.Second,
}

// One client per tier, sharing the pooled transport. Initialized once.
var (
	clientStandard *http.Client
	clientExtended *http.Client
	clientOnce     sync.Once
)

func initClients() {
	clientStandard = &http.Client{
		Timeout:   timeoutDurations[TierStandard],
		Transport: sharedTransport,
	}
	clientExtended = &http.Client{
		Timeout:   timeoutDurations[TierExtended],
		Transport: sharedTransport,
	}
}

// Client returns the shared HTTP client for the given tier. Use these
// instead of constructing http.Client values per request; per-request
// clients defeat connection pooling.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	if tier == TierExtended {
		return clientExtended
	}
	return clientStandard
}

// StandardClient returns the 30s-timeout client for detector calls.
func StandardClient() *http.Client {
	return Client(TierStandard)
}

// ExtendedClient returns the 60s-timeout client for large uploads.
func ExtendedClient() *http.Client {
	return Client(TierExtended)
}

// ReadResponseBody reads a response body up to maxSize bytes. A
// non-positive maxSize falls back to MaxResponseSize.
func ReadResponseBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadErrorBody reads a response body for inclusion in an error
// message. Error bodies get a much smaller cap.
func ReadErrorBody(r io.Reader) ([]byte, error) {
	const maxErrorSize = 1 * 1024 * 1024
	return io.ReadAll(io.LimitReader(r, maxErrorSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
