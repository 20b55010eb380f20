package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

const maxResponseBytes = 1 << 20

// HTTPGateway posts turns as JSON to a backend endpoint.
type HTTPGateway struct {
	endpoint string
	client   *http.Client
	header   http.Header
}

type HTTPOption func(*HTTPGateway)

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

func WithHeader(key, value string) HTTPOption {
	return func(g *HTTPGateway) {
		g.header.Set(key, value)
	}
}

func NewHTTPGateway(endpoint string, opts ...HTTPOption) *HTTPGateway {
	g := &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		header:   http.Header{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) Send(ctx context.Context, req Request) (*Response, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range g.header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &Error{Status: resp.StatusCode}
		if err := sonic.Unmarshal(raw, gwErr); err != nil || gwErr.Message == "" {
			gwErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, gwErr
	}

	var out Response
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

var _ Gateway = (*HTTPGateway)(nil)
