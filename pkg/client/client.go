// Package client is the HTTP layer for the Cloudglass platform API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/serum-errors/go-serum"

	"github.com/cloudglass-tools/cloudglass/capi"
	"github.com/cloudglass-tools/cloudglass/pkg/tracing"
)

// Client issues authenticated JSON requests against one API endpoint.
// The zero value is not usable; construct with New.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Get issues a GET and decodes the JSON response body into out.
// Pass nil to discard the body.
//
// Errors:
//
//    - cloudglass-error-api -- when the server answers outside the 2xx range
//    - cloudglass-error-io -- when the request cannot be sent
//    - cloudglass-error-serialization -- when the response body is not valid JSON
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON-serialized body and decodes the JSON
// response into out.  Body or out may be nil.
//
// Errors:
//
//    - cloudglass-error-api -- when the server answers outside the 2xx range
//    - cloudglass-error-io -- when the request cannot be sent
//    - cloudglass-error-serialization -- when either body fails to serialize
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := tracing.Start(ctx, fmt.Sprintf("api: %s %s", method, path))
	defer span.End()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return capi.ErrorSerialization("serializing the request body", err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return capi.ErrorIo("building an api request", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		err = capi.ErrorIo("sending an api request", path, err)
		tracing.SetSpanError(ctx, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := capi.ErrorApi(resp.StatusCode, apiMessage(detail, resp.StatusCode))
		tracing.SetSpanError(ctx, err)
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return capi.ErrorSerialization("decoding the api response", err)
	}
	return nil
}

// apiMessage pulls the server's error message out of the response body when
// it follows the platform's {"error":{"message":...}} shape, falling back
// to the HTTP status text.
func apiMessage(body []byte, status int) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return http.StatusText(status)
}

// IsStatus reports whether err is an api error carrying the given HTTP
// status detail.
func IsStatus(err error, status int) bool {
	if serum.Code(err) != capi.CodeApi {
		return false
	}
	for _, d := range serum.Details(err) {
		if d[0] == "status" {
			return d[1] == fmt.Sprintf("%d", status)
		}
	}
	return false
}
