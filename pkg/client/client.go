package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-churnform/internal/logger"
	"github.com/goliatone/go-churnform/pkg/model"
)

const (
	// DefaultLatencyHeader is the response header carrying processing time in
	// seconds.
	DefaultLatencyHeader = "X-Process-Time"

	healthPath       = "/health"
	modelInfoPath    = "/model/info"
	predictPath      = "/predict"
	predictBatchPath = "/predict/batch"

	maxResponseSize = 1 << 20
)

// Client talks to the churn scoring service.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	log           *logger.Logger
	latencyHeader string
	healthRetries uint64
	healthBackoff func() backoff.BackOff
}

// New validates baseURL and applies options. The zero-option client uses
// http.DefaultClient semantics with a 30s timeout and no health retries.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("client: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", parsed.Scheme)
	}

	c := &Client{
		baseURL:       parsed,
		http:          &http.Client{Timeout: 30 * time.Second},
		log:           logger.Discard(),
		latencyHeader: DefaultLatencyHeader,
		healthBackoff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CheckHealth probes GET /health. Any transport failure or non-2xx status is
// reported as offline; the probe is attempted once unless WithHealthRetries
// was supplied.
func (c *Client) CheckHealth(ctx context.Context) model.HealthStatus {
	probe := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, healthPath, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.do(req)
		if err != nil {
			return err
		}
		defer drain(resp)
		if !success(resp.StatusCode) {
			return fmt.Errorf("client: health status %d", resp.StatusCode)
		}
		return nil
	}

	var err error
	if c.healthRetries == 0 {
		err = probe()
	} else {
		policy := backoff.WithContext(backoff.WithMaxRetries(c.healthBackoff(), c.healthRetries), ctx)
		err = backoff.Retry(probe, policy)
	}

	if err != nil {
		c.log.WithError(err).Warn("health check failed")
		return model.HealthOffline
	}
	return model.HealthOnline
}

// Predict submits one customer to POST /predict. Failures are returned as
// *SubmitError wrapping ErrPredictionFailed; the call is never retried.
func (c *Client) Predict(ctx context.Context, request model.PredictionRequest) (model.Prediction, error) {
	var out model.PredictionResponse
	header, err := c.postJSON(ctx, predictPath, request, &out)
	if err != nil {
		return model.Prediction{}, err
	}
	return model.Prediction{
		Response: out,
		Latency:  ParseLatency(header.Get(c.latencyHeader)),
	}, nil
}

// ModelInfo reads GET /model/info. The service answers 503 until a model
// is loaded.
func (c *Client) ModelInfo(ctx context.Context) (model.ModelInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, modelInfoPath, nil)
	if err != nil {
		return model.ModelInfo{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return model.ModelInfo{}, fmt.Errorf("client: model info: %w", err)
	}
	defer drain(resp)
	if !success(resp.StatusCode) {
		return model.ModelInfo{}, fmt.Errorf("client: model info status %d", resp.StatusCode)
	}

	var info model.ModelInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&info); err != nil {
		return model.ModelInfo{}, fmt.Errorf("client: decode model info: %w", err)
	}
	return info, nil
}

type batchRequest struct {
	Customers []model.PredictionRequest `json:"customers"`
}

// PredictBatch scores several customers with POST /predict/batch.
func (c *Client) PredictBatch(ctx context.Context, requests []model.PredictionRequest) (model.BatchResult, error) {
	if len(requests) == 0 {
		return model.BatchResult{}, errors.New("client: batch is empty")
	}
	var out model.BatchResult
	if _, err := c.postJSON(ctx, predictBatchPath, batchRequest{Customers: requests}, &out); err != nil {
		return model.BatchResult{}, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) (http.Header, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &SubmitError{Op: path, Err: err}
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, &SubmitError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, &SubmitError{Op: path, Err: err}
	}
	defer drain(resp)

	if !success(resp.StatusCode) {
		return nil, &SubmitError{Op: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(target); err != nil {
		return nil, &SubmitError{Op: path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.Header, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	entry := c.log.WithRequest(req)
	start := time.Now()
	resp, err := c.http.Do(req)
	entry = entry.WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		entry.WithField("error", err.Error()).Warn("request failed")
		return nil, err
	}
	entry.WithFields(logrus.Fields{"status": resp.StatusCode}).Debug("request completed")
	return resp, nil
}

// ParseLatency converts a header value in seconds to a duration. Missing,
// malformed, non-finite or out of range values yield nil.
func ParseLatency(raw string) *time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil
	}
	if seconds*float64(time.Second) >= math.MaxInt64 {
		return nil
	}
	d := time.Duration(seconds * float64(time.Second))
	return &d
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
}
