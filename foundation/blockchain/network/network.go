// Package network provides the node to node calls used to pull chain
// snapshots and status information from peers.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// baseURL is the root of the private node API on every peer.
const baseURL = "http://%s/v1/node"

// maxResponseSize caps how much of a peer response is read.
const maxResponseSize = 64 << 20

// Snapshot is the chain and length a node reports for its ledger.
type Snapshot struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

// =============================================================================

// Client performs requests against the private API of other nodes.
type Client struct {
	http *http.Client
}

// NewClient constructs a client. The timeout bounds any single request
// regardless of the context provided by the caller.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchChain retrieves the chain snapshot of the specified peer.
func (c *Client) FetchChain(ctx context.Context, host string) (Snapshot, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, host))

	var snapshot Snapshot
	if err := c.send(ctx, http.MethodGet, url, nil, &snapshot); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

// FetchStatus retrieves the status of the specified peer.
func (c *Client) FetchStatus(ctx context.Context, host string) (peer.PeerStatus, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, host))

	var ps peer.PeerStatus
	if err := c.send(ctx, http.MethodGet, url, nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	return ps, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %w", resp.StatusCode, errors.New(string(bytes.TrimSpace(msg))))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(dataRecv); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
