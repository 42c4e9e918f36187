/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package osc implements the camera's HTTP command API.
package osc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carverauto/thetacapture/pkg/logger"
)

const (
	pathExecute = "/osc/commands/execute"
	pathStatus  = "/osc/commands/status"
	pathState   = "/osc/state"

	defaultTimeout = 30 * time.Second
	contentType    = "application/json;charset=utf-8"
	maxErrorBody   = 4096
)

// ClientConfig configures the HTTP gateway.
type ClientConfig struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	endpoint string
	http     *http.Client
	logger   logger.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient creates a gateway for the camera at cfg.Endpoint.
func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, errEmptyEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		logger:   log,
	}, nil
}

// Execute implements Gateway.
func (c *Client) Execute(ctx context.Context, name string, params interface{}) (*CommandResponse, error) {
	var resp CommandResponse

	if err := c.post(ctx, pathExecute, CommandRequest{Name: name, Parameters: params}, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("command", name).
		Str("state", string(resp.State)).
		Str("id", resp.ID).
		Msg("Command executed")

	return &resp, nil
}

// Status implements Gateway.
func (c *Client) Status(ctx context.Context, id string) (*CommandResponse, error) {
	var resp CommandResponse

	if err := c.post(ctx, pathStatus, map[string]string{"id": id}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// State implements Gateway.
func (c *Client) State(ctx context.Context) (*StateResponse, error) {
	var resp StateResponse

	if err := c.post(ctx, pathState, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", path, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", path, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NotConnectedError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NotConnectedError{Err: err}
	}

	// Command errors arrive as 4xx/5xx with a JSON body carrying "error";
	// those decode into out and are surfaced by CommandResponse.Err.
	decodeErr := json.Unmarshal(data, out)

	if resp.StatusCode >= http.StatusBadRequest {
		if decodeErr == nil && hasCommandError(out) {
			return nil
		}

		return &WebAPIError{
			Code:    http.StatusText(resp.StatusCode),
			Message: truncate(string(data), maxErrorBody),
		}
	}

	if decodeErr != nil {
		return &WebAPIError{Message: fmt.Sprintf("invalid %s response: %v", path, decodeErr)}
	}

	return nil
}

func hasCommandError(out interface{}) bool {
	resp, ok := out.(*CommandResponse)

	return ok && resp.Error != nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}

	return s[:n]
}
