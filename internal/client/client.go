package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/khanhnv2901/headerguard/internal/analysis"
	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/headerguard/internal/shared/errors"
	"go.uber.org/zap"
)

// Analyzer submits a URL to the remote header analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error)
}

// Config configures an HTTPClient.
type Config struct {
	BaseURL    string       // analyzer base URL, e.g. https://headerguard.example.com
	HTTPClient *http.Client // optional; defaults to a client bounded by DefaultRequestTimeout
	Logger     *zap.Logger  // optional
}

// HTTPClient talks to the analyzer over net/http.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// New validates cfg and returns a client for POST {BaseURL}/api/analyze.
func New(cfg Config) (*HTTPClient, error) {
	endpoint, err := analyzeEndpoint(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: consts.DefaultRequestTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPClient{
		endpoint: endpoint,
		client:   httpClient,
		logger:   logger.With(zap.String("component", "analyzer-client")),
	}, nil
}

// Endpoint returns the resolved analyze URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func analyzeEndpoint(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("%w: empty", sharederrors.ErrInvalidAPIURL)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharederrors.ErrInvalidAPIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", sharederrors.ErrInvalidAPIURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", sharederrors.ErrInvalidAPIURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + consts.AnalyzePath
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Analyze performs exactly one POST to the analyzer.
//
// A 2xx response is decoded as AnalyzeResponse. Any other status yields an
// *APIError carrying the server's message (or DefaultAPIErrorMessage). Network,
// timeout and decoding faults yield a *TransportError.
func (c *HTTPClient) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode analyze request", Err: err}
	}

	requestID := ensureRequestID(ctx)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	c.logger.Debug("sending analyze request",
		zap.String("endpoint", c.endpoint),
		zap.String("url", req.URL),
		zap.Bool("bypass_cache", req.BypassCache),
		zap.String("request_id", requestID))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("analyze request failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
			RequestID:  requestID,
		}
		c.logger.Warn("analyzer returned failure status",
			zap.Int("status", resp.StatusCode),
			zap.String("error", apiErr.Error()),
			zap.String("request_id", requestID))
		return nil, apiErr
	}

	var out analysis.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Op: "decode analyze response", Err: err}
	}

	c.logger.Debug("analyze request completed",
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	return &out, nil
}

// readErrorMessage extracts ApiError.error from a failure body, falling back
// to DefaultAPIErrorMessage when the body is absent or unparsable.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, consts.ErrorBodyLimitBytes))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return DefaultAPIErrorMessage
	}
	var apiErr analysis.APIError
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
		return DefaultAPIErrorMessage
	}
	return apiErr.Error
}
