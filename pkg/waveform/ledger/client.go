// Package ledger implements the LedgerClient capability over the ledger
// gateway's HTTP API: submit-transaction plus plain status queries. The
// gateway is the only writer; this client holds no state of its own.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

const defaultRequestTimeout = 30 * time.Second

// Client talks to the ledger gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a ledger client for the gateway at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ledger base URL is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SubmitEntityWrite submits a signed write action and returns its receipt.
func (c *Client) SubmitEntityWrite(ctx context.Context, action *waveform.WriteAction) (*waveform.TxReceipt, error) {
	body, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/writes", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var receipt waveform.TxReceipt
	if err := c.do(req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetBlockConfirmation reports the finality of the given block.
func (c *Client) GetBlockConfirmation(ctx context.Context, blockHash string, blockNumber int64) (waveform.BlockConfirmation, error) {
	q := url.Values{}
	q.Set("hash", blockHash)
	q.Set("number", strconv.FormatInt(blockNumber, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/blocks/confirmation?"+q.Encode(), nil)
	if err != nil {
		return waveform.ConfirmationUnknown, err
	}

	var resp struct {
		Confirmation waveform.BlockConfirmation `json:"confirmation"`
	}
	if err := c.do(req, &resp); err != nil {
		return waveform.ConfirmationUnknown, err
	}
	switch resp.Confirmation {
	case waveform.ConfirmationConfirmed, waveform.ConfirmationDenied, waveform.ConfirmationUnknown:
		return resp.Confirmation, nil
	default:
		return waveform.ConfirmationUnknown, fmt.Errorf("unexpected confirmation state %q", resp.Confirmation)
	}
}

// GetCurrentBlock returns the current ledger head.
func (c *Client) GetCurrentBlock(ctx context.Context) (*waveform.Block, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/blocks/current", nil)
	if err != nil {
		return nil, err
	}
	var block waveform.Block
	if err := c.do(req, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("ledger gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ledger response: %w", err)
	}
	return nil
}
