package lens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// restClient performs JSON request/response exchanges with the Lens API.
// It is deliberately thin: one fresh request per call, no retries, no
// caching, no local recovery. Failures map onto the client error taxonomy:
//
//   - [TransportError] — the exchange did not complete (network, timeout,
//     unreadable or undecodable body)
//   - [RequestError] — the server answered with a non-2xx status
//
// Each facade owns one restClient for its lifetime and releases it via
// [restClient.close].
type restClient struct {
	baseURL string
	client  *http.Client
}

func newRESTClient(cfg clientConfig) *restClient {
	client := cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}
	return &restClient{
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		client:  client,
	}
}

// errorBody is the shape the server uses for error responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// do executes one request and decodes a 2xx response body into out.
// body is JSON-marshaled when non-nil; out may be nil to discard the
// response. query may be nil.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	capitan.Emit(ctx, RequestStarted,
		FieldRequestID.Field(requestID),
		FieldMethod.Field(method),
		FieldPath.Field(path),
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		terr := &TransportError{Op: op, Err: err}
		capitan.Error(ctx, RequestFailed,
			FieldRequestID.Field(requestID),
			FieldMethod.Field(method),
			FieldPath.Field(path),
			FieldDuration.Field(duration),
			FieldError.Field(terr),
		)
		return terr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
		capitan.Error(ctx, RequestFailed,
			FieldRequestID.Field(requestID),
			FieldMethod.Field(method),
			FieldPath.Field(path),
			FieldDuration.Field(duration),
			FieldError.Field(terr),
		)
		return terr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &RequestError{
			StatusCode: resp.StatusCode,
			Message:    extractDetail(respBody),
		}
		capitan.Error(ctx, RequestFailed,
			FieldRequestID.Field(requestID),
			FieldMethod.Field(method),
			FieldPath.Field(path),
			FieldStatusCode.Field(resp.StatusCode),
			FieldDuration.Field(duration),
			FieldError.Field(rerr),
		)
		return rerr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
		}
	}

	capitan.Emit(ctx, RequestCompleted,
		FieldRequestID.Field(requestID),
		FieldMethod.Field(method),
		FieldPath.Field(path),
		FieldStatusCode.Field(resp.StatusCode),
		FieldDuration.Field(duration),
	)

	return nil
}

// close releases the client's idle connections. Safe to call after failed
// requests and more than once.
func (c *restClient) close() {
	c.client.CloseIdleConnections()
}

// extractDetail pulls the server's detail message out of an error body,
// falling back to the raw body when it is not the documented shape.
func extractDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	return strings.TrimSpace(string(body))
}
