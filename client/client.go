// Package client issues call control requests against the voice API. Both
// operations are single shot - no retries, no idempotency keys - because
// placing a call is not safe to blindly retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/nyaruka/gocommon/httpx"
	"github.com/nyaruka/gocommon/jsonx"
	"github.com/nyaruka/voicex/utils"
)

// default Accept header value for API requests
const formatJSON = "application/json"

// APIError is an error reported by the platform for a call control request
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voice API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client is a client for the voice API, scoped to a single account
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	apiKey     string
}

// NewClient creates a new voice API client for the passed in username and API key
func NewClient(httpClient *http.Client, baseURL, username, apiKey string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		username:   username,
		apiKey:     apiKey,
	}
}

// Call requests an outbound call be placed from the given number to the given
// number. The platform reports success with a 200 or 201.
func (c *Client) Call(ctx context.Context, params *CallParams) (*CallResponse, *httpx.Trace, error) {
	if err := utils.Validate(params); err != nil {
		return nil, nil, err
	}

	body := &callRequest{Username: c.username, To: params.To, From: params.From}

	trace, err := c.makeRequest(ctx, c.baseURL+callPath, body)
	if err != nil {
		return nil, trace, fmt.Errorf("error trying to place call: %w", err)
	}

	if trace.Response.StatusCode != http.StatusOK && trace.Response.StatusCode != http.StatusCreated {
		return nil, trace, c.responseError(trace)
	}

	resp := &CallResponse{}
	if err := json.Unmarshal(trace.ResponseBody, resp); err != nil {
		return nil, trace, fmt.Errorf("unable to parse call response: %w", err)
	}

	slog.Debug("requested call", "to", params.To, "status", trace.Response.StatusCode)

	return resp, trace, nil
}

// QueuedCalls queries the number of queued calls for the given comma separated
// phone numbers. The platform reports success with a 201 only.
func (c *Client) QueuedCalls(ctx context.Context, params *QueuedCallsParams) (*QueuedCallsResponse, *httpx.Trace, error) {
	if err := utils.Validate(params); err != nil {
		return nil, nil, err
	}

	body := &queuedCallsRequest{Username: c.username, PhoneNumbers: params.PhoneNumbers}

	trace, err := c.makeRequest(ctx, c.baseURL+queueStatusPath, body)
	if err != nil {
		return nil, trace, fmt.Errorf("error trying to fetch queued calls: %w", err)
	}

	if trace.Response.StatusCode != http.StatusCreated {
		return nil, trace, c.responseError(trace)
	}

	resp := &QueuedCallsResponse{}
	if err := json.Unmarshal(trace.ResponseBody, resp); err != nil {
		return nil, trace, fmt.Errorf("unable to parse queued calls response: %w", err)
	}

	return resp, trace, nil
}

func (c *Client) makeRequest(ctx context.Context, sendURL string, body any) (*httpx.Trace, error) {
	bb := jsonx.MustMarshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(bb))
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", formatJSON)
	req.Header.Set("Content-Type", formatJSON)

	return httpx.DoTrace(c.httpClient, req, nil, nil, -1)
}

// responseError surfaces the platform reported error for a non-success
// response, falling back to the raw body
func (c *Client) responseError(trace *httpx.Trace) error {
	msg, err := jsonparser.GetString(trace.ResponseBody, "errorMessage")
	if err != nil || msg == "" || msg == "None" {
		msg = string(trace.ResponseBody)
	}
	return &APIError{StatusCode: trace.Response.StatusCode, Message: msg}
}
