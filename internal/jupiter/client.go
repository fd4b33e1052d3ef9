// Package jupiter is a minimal client for the Jupiter quote API. Once a
// token launches, price discovery moves off the curve, so the launchpad
// proxies quotes for launched tokens through here; only the quote endpoint
// is wrapped.
package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.jup.ag/swap/v1"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HTTPError carries a non-2xx upstream response through to the caller.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if b := strings.TrimSpace(string(e.Body)); b != "" {
		return fmt.Sprintf("jupiter http %d: %s", e.StatusCode, b)
	}
	return fmt.Sprintf("jupiter http %d", e.StatusCode)
}

// Quote fetches a swap quote for the given pair and raw input amount.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if req.InputMint == "" || req.OutputMint == "" {
		return nil, fmt.Errorf("input and output mints are required")
	}
	if req.Amount == "" {
		return nil, fmt.Errorf("amount is required")
	}

	q := url.Values{}
	q.Set("inputMint", req.InputMint)
	q.Set("outputMint", req.OutputMint)
	q.Set("amount", req.Amount)
	if req.SlippageBps != nil {
		q.Set("slippageBps", strconv.FormatUint(uint64(*req.SlippageBps), 10))
	}
	if req.OnlyDirectRoutes {
		q.Set("onlyDirectRoutes", "true")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out QuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode jupiter quote: %w", err)
	}
	return &out, nil
}
