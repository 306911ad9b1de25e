package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/hashicorp/go-retryablehttp"
)

// config holds the settings for the node client.
type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
}

// Option defines a functional option for configuring the client.
type Option func(*config)

// WithTimeout sets the maximum duration allowed for a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryMax sets the maximum number of retry attempts.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithRetryWait sets the bounds of the delay between retry attempts.
func WithRetryWait(minWait time.Duration, maxWait time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = minWait
		c.retryWaitMax = maxWait
	}
}

// Client calls the public API of a node. Calls that change the node, such
// as submitting a transaction or mining, are sent once and never retried.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	once    *retryablehttp.Client
}

// NewClient constructs a client for the node at the url.
func NewClient(url string, opts ...Option) *Client {
	cfg := config{
		timeout:      10 * time.Minute,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		baseURL: strings.TrimSuffix(url, "/"),
		http:    newHTTPClient(cfg, cfg.retryMax),
		once:    newHTTPClient(cfg, 0),
	}
}

func newHTTPClient(cfg config, retryMax int) *retryablehttp.Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = cfg.timeout
	httpClient.RetryWaitMin = cfg.retryWaitMin
	httpClient.RetryWaitMax = cfg.retryWaitMax
	httpClient.RetryMax = retryMax

	// Hand back the last response once retries run out so the node's error
	// message can be shown.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return httpClient
}

// SubmitTransaction adds a transaction to the node's pool.
func (c *Client) SubmitTransaction(ctx context.Context, nt public.NewTransaction) (public.TransactionAccepted, error) {
	var resp public.TransactionAccepted
	if err := c.do(ctx, c.once, http.MethodPost, "/v1/transactions/new", nt, &resp); err != nil {
		return public.TransactionAccepted{}, err
	}
	return resp, nil
}

// Pending returns the transactions waiting to be mined.
func (c *Client) Pending(ctx context.Context) (public.Pending, error) {
	var resp public.Pending
	if err := c.do(ctx, c.http, http.MethodGet, "/v1/transactions/pending", nil, &resp); err != nil {
		return public.Pending{}, err
	}
	return resp, nil
}

// Mine asks the node to mine a block and waits for it.
func (c *Client) Mine(ctx context.Context) (public.BlockForged, error) {
	var resp public.BlockForged
	if err := c.do(ctx, c.once, http.MethodGet, "/v1/mine", nil, &resp); err != nil {
		return public.BlockForged{}, err
	}
	return resp, nil
}

// Chain returns the node's full chain.
func (c *Client) Chain(ctx context.Context) (public.Chain, error) {
	var resp public.Chain
	if err := c.do(ctx, c.http, http.MethodGet, "/v1/chain", nil, &resp); err != nil {
		return public.Chain{}, err
	}
	return resp, nil
}

// RegisterNodes adds peers to the node.
func (c *Client) RegisterNodes(ctx context.Context, nodes []string) (public.NodesRegistered, error) {
	var resp public.NodesRegistered
	if err := c.do(ctx, c.http, http.MethodPost, "/v1/nodes/register", public.RegisterNodes{Nodes: nodes}, &resp); err != nil {
		return public.NodesRegistered{}, err
	}
	return resp, nil
}

// Resolve runs consensus on the node.
func (c *Client) Resolve(ctx context.Context) (public.Resolved, error) {
	var resp public.Resolved
	if err := c.do(ctx, c.http, http.MethodGet, "/v1/nodes/resolve", nil, &resp); err != nil {
		return public.Resolved{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, hc *retryablehttp.Client, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return fmt.Errorf("%s", er.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
