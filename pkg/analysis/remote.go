package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/verifiai/authenticity/pkg/httputil"
)

// DefaultRemoteTimeout bounds a remote detector call. The fetch is
// best-effort: timeouts and errors resolve to "no remote result", never
// to a caller-facing failure.
const DefaultRemoteTimeout = 30 * time.Second

// maxConcurrentRemoteFetches caps in-flight calls to the remote
// detector so a burst of uploads cannot pile up goroutines against a
// slow external service.
const maxConcurrentRemoteFetches = 32

// RemoteClient posts media buffers to an external scoring endpoint and
// decodes its RemoteResult. It is optional wiring: an engine without
// one simply always takes the local-only path.
type RemoteClient struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	sem      *httputil.Semaphore
}

// NewRemoteClient builds a client for the given scoring endpoint.
// A non-positive timeout falls back to DefaultRemoteTimeout.
func NewRemoteClient(endpoint string, timeout time.Duration) *RemoteClient {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	client := httputil.StandardClient()
	if timeout > 30*time.Second {
		client = httputil.ExtendedClient()
	}
	return &RemoteClient{
		endpoint: endpoint,
		timeout:  timeout,
		client:   client,
		sem:      httputil.NewSemaphore(maxConcurrentRemoteFetches),
	}
}

// Stats reports current backpressure against the remote detector.
func (c *RemoteClient) Stats() httputil.SemaphoreStats {
	return c.sem.Stats()
}

// Fetch posts the buffer as multipart file data and decodes the JSON
// response body ({score, analysis_details}). The call is cancellable
// via ctx and additionally bounded by the client timeout.
func (c *RemoteClient) Fetch(ctx context.Context, buf []byte, mediaType string) (*RemoteResult, error) {
	if err := c.sem.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("remote detector backpressure: %w", err)
	}
	defer c.sem.Release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "upload")
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(buf); err != nil {
		return nil, fmt.Errorf("write multipart body: %w", err)
	}
	if err := writer.WriteField("media_type", mediaType); err != nil {
		return nil, fmt.Errorf("write media_type field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build remote request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote detector call: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return nil, fmt.Errorf("remote detector returned %d: %s", resp.StatusCode, string(errBody))
	}

	data, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("read remote response: %w", err)
	}

	var result RemoteResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode remote response: %w", err)
	}
	result.Score = clamp(result.Score, 0, 100)
	return &result, nil
}
