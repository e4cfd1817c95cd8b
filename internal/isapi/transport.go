// Package isapi implements the client side of the ISAPI XML/JSON-over-HTTP
// protocol spoken by biometric access-control terminals. Transport builds
// digest-authenticated requests; Client encodes one method per device
// operation and normalizes the heterogeneous response shapes into a Result
// envelope.
package isapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/icholy/digest"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// Response is the raw outcome of one device round trip.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// Body is the full response body. It may be XML, JSON or binary
	// depending on the endpoint.
	Body []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport issues digest-authenticated HTTP requests against one device.
// It holds no session state: every call is a single round trip and a fresh
// Transport per call is cheap.
type Transport struct {
	baseURL string
	client  *http.Client
}

// NewTransport builds a Transport for the given checkpoint. timeout bounds
// each round trip; the context passed to Request can cut it shorter.
func NewTransport(cp *models.Checkpoint, timeout time.Duration) *Transport {
	return &Transport{
		baseURL: "http://" + cp.Host,
		client: &http.Client{
			Timeout: timeout,
			Transport: &digest.Transport{
				Username: cp.Username,
				Password: cp.Password,
			},
		},
	}
}

// Request sends one HTTP request to the device and reads the full response.
// method is one of GET/POST/PUT/PATCH/DELETE. body may be nil, a []byte or
// string sent verbatim with contentType, or any other value serialized as
// JSON. Network failures propagate as errors; device-reported failures are
// visible through the returned status code.
func (t *Transport) Request(ctx context.Context, method, path string, body any, contentType string) (*Response, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read device response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: data}, nil
}
