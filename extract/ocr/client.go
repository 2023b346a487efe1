// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ocr implements the remote OCR extraction strategy: client
// credential token exchange, two-phase asset upload, job creation, bounded
// polling, and result decoding.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/extract"
)

// Default configuration values.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 60
	DefaultHTTPTimeout  = 60 * time.Second
)

// Config holds configuration for the OCR service client.
type Config struct {
	// BaseURL is the OCR service root, e.g. "https://pdf-services.example.io".
	BaseURL string

	// ClientID and ClientSecret are exchanged for a bearer token.
	ClientID     string
	ClientSecret string

	// PollInterval is the fixed delay between job status checks
	// (default 5s).
	PollInterval time.Duration

	// MaxAttempts bounds the number of status checks before the job is
	// abandoned with core.ErrTimeout (default 60).
	MaxAttempts int

	// HTTPTimeout applies to each individual request (default 60s).
	HTTPTimeout time.Duration
}

// Client submits extraction jobs to the remote OCR service.
type Client struct {
	http    *http.Client
	baseURL string
	id      string
	secret  string
	poll    time.Duration
	retries int
	logger  *slog.Logger
}

var _ extract.Extractor = (*Client)(nil)

// New creates an OCR client. Credential errors are fatal at construction.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: ocr base URL is required", core.ErrConfiguration)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: ocr client credentials are required", core.ErrConfiguration)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		id:      cfg.ClientID,
		secret:  cfg.ClientSecret,
		poll:    cfg.PollInterval,
		retries: cfg.MaxAttempts,
		logger:  slog.Default().With("component", "ocr-client"),
	}, nil
}

// Extract runs the full remote workflow for one document: token, asset
// upload, job creation, polling, result download, text decode.
func (c *Client) Extract(ctx context.Context, key string, data []byte) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	assetID, err := c.uploadAsset(ctx, token, data)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	location, err := c.createJob(ctx, token, assetID)
	if err != nil {
		return "", fmt.Errorf("creating job for %s: %w", key, err)
	}
	c.logger.Info("extraction job created", "key", key, "location", location)

	downloadURL, err := c.pollJob(ctx, token, location)
	if err != nil {
		return "", fmt.Errorf("job for %s: %w", key, err)
	}

	raw, err := c.download(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("downloading result for %s: %w", key, err)
	}

	text, err := decodeResult(raw)
	if err != nil {
		return "", fmt.Errorf("decoding result for %s: %w", key, err)
	}
	c.logger.Info("text extracted", "key", key, "chars", len(text))
	return text, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// token exchanges client credentials for a bearer token.
func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.id},
		"client_secret": {c.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", core.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: ocr credentials rejected (%d)", core.ErrConfiguration, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpError("token", resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding token: %v", core.ErrTransient, err)
	}
	return tr.AccessToken, nil
}

type assetResponse struct {
	UploadURI string `json:"uploadUri"`
	AssetID   string `json:"assetID"`
}

// uploadAsset performs the two-phase upload: request an upload URI, then PUT
// the document bytes to it.
func (c *Client) uploadAsset(ctx context.Context, token string, data []byte) (string, error) {
	body, _ := json.Marshal(map[string]string{"mediaType": "application/pdf"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/assets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: asset request: %v", core.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpError("asset", resp)
	}

	var ar assetResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("%w: decoding asset response: %v", core.ErrTransient, err)
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, ar.UploadURI, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	put.Header.Set("Content-Type", "application/pdf")

	upResp, err := c.http.Do(put)
	if err != nil {
		return "", fmt.Errorf("%w: uploading bytes: %v", core.ErrTransient, err)
	}
	defer upResp.Body.Close()

	if upResp.StatusCode != http.StatusOK {
		return "", httpError("upload", upResp)
	}
	return ar.AssetID, nil
}

// createJob starts extraction for an uploaded asset and returns the job's
// status URL from the Location header.
func (c *Client) createJob(ctx context.Context, token, assetID string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"assetID":           assetID,
		"elementsToExtract": []string{"text"},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/operation/extractpdf", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: job request: %v", core.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", httpError("job", resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: job response missing Location header", core.ErrTransient)
	}
	return location, nil
}

// download fetches the extraction result from its signed URL.
func (c *Client) download(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: result download: %v", core.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError("download", resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-API-Key", c.id)
}

func httpError(step string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s returned %d: %s", core.ErrTransient, step, resp.StatusCode, strings.TrimSpace(string(body)))
}
