// Package storage implements the storage node client: multipart file upload
// with a bounded retry budget and progress reporting.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

// maxUploadAttempts is the total retry budget for one upload: the initial
// attempt plus two retries. This is the sole retry boundary; callers must
// not assume any further automatic retry.
const maxUploadAttempts = 3

const defaultRequestTimeout = 60 * time.Second

// Client talks to a storage node over HTTP. It is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
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

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a storage client for the node at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("storage base URL is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadFile uploads one file, retrying transient failures up to the retry
// budget. When the budget is exhausted the last error propagates as an
// UploadError and no durable processed artifact should be assumed.
func (c *Client) UploadFile(ctx context.Context, req waveform.UploadFileRequest) (*waveform.UploadResult, error) {
	if req.File == nil {
		return nil, &waveform.ValidationError{Op: "UploadFile", Field: "File", Reason: "is required"}
	}
	if req.Template == "" {
		return nil, &waveform.ValidationError{Op: "UploadFile", Field: "Template", Reason: "is required"}
	}

	size, err := req.File.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &waveform.ValidationError{Op: "UploadFile", Field: "File", Reason: "must be seekable"}
	}

	var result *waveform.UploadResult
	attempt := 0
	operation := func() error {
		attempt++
		if _, err := req.File.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.doUpload(ctx, req, size)
		if err != nil {
			return err
		}
		result = res
		return nil
	}
	notify := func(err error, next time.Duration) {
		c.logger.Info("retrying upload",
			"template", req.Template, "attempt", attempt, "next_in", next, "error", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUploadAttempts-1), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, &waveform.UploadError{Template: req.Template, Attempts: attempt, Err: err}
	}
	return result, nil
}

// EditFile asks the storage node to re-process an existing upload, e.g. to
// re-cut a preview clip. Same retry budget as UploadFile.
func (c *Client) EditFile(ctx context.Context, req waveform.EditFileRequest) (*waveform.UploadResult, error) {
	if req.UploadID == "" {
		return nil, &waveform.ValidationError{Op: "EditFile", Field: "UploadID", Reason: "is required"}
	}

	body, err := json.Marshal(req.Data)
	if err != nil {
		return nil, &waveform.SerializationError{Err: err}
	}

	var result *waveform.UploadResult
	attempt := 0
	operation := func() error {
		attempt++
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			fmt.Sprintf("%s/v1/uploads/%s", c.baseURL, url.PathEscape(req.UploadID)),
			bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		res, err := c.decodeUploadResponse(httpReq)
		if err != nil {
			return err
		}
		result = res
		return nil
	}
	notify := func(err error, next time.Duration) {
		c.logger.Info("retrying edit", "upload_id", req.UploadID, "attempt", attempt, "next_in", next, "error", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUploadAttempts-1), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, &waveform.UploadError{Template: "edit", Attempts: attempt, Err: err}
	}
	return result, nil
}

// doUpload performs a single multipart upload attempt.
func (c *Client) doUpload(ctx context.Context, req waveform.UploadFileRequest, size int64) (*waveform.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("template", req.Template); err != nil {
		return nil, backoff.Permanent(err)
	}
	for k, v := range req.Options {
		if err := writer.WriteField(k, v); err != nil {
			return nil, backoff.Permanent(err)
		}
	}
	name := req.Name
	if name == "" {
		name = "file"
	}
	part, err := writer.CreateFormFile("files", name)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	var src io.Reader = req.File
	if req.OnProgress != nil {
		src = &progressReader{r: req.File, total: size, onProgress: req.OnProgress}
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, backoff.Permanent(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/uploads", &buf)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	return c.decodeUploadResponse(httpReq)
}

// decodeUploadResponse executes the request and decodes an UploadResult.
// 4xx responses are permanent; 5xx and transport errors are retryable.
func (c *Client) decodeUploadResponse(httpReq *http.Request) (*waveform.UploadResult, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("storage node returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var result waveform.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

// progressReader reports monotonically non-decreasing byte counts as the
// multipart body is assembled.
type progressReader struct {
	r          io.Reader
	read       int64
	total      int64
	onProgress waveform.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.onProgress(p.read, p.total)
	}
	return n, err
}
