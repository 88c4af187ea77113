// Package barry is a client for the barry.energy JSON-RPC API. It exposes
// hourly spot prices per market zone, the metering points linked to a
// contract, aggregated consumption and the blended per-kWh price.
//
// The client holds an API token and an endpoint and nothing else: no caching,
// no retries, no token refresh. Every operation is one synchronous POST.
package barry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIEndpoint is the fixed production endpoint.
const APIEndpoint = "https://jsonrpc.barry.energy/json-rpc"

// All remote methods live on this controller.
const methodPrefix = "co.getbarry.api.v1.OpenApiController."

// TimeLayout is the wire format for timestamps in both directions: second
// precision, UTC, literal Z suffix.
const TimeLayout = "2006-01-02T15:04:05Z"

// Client talks to the barry.energy API. The zero value is not usable, use New.
// Endpoint, HTTPClient and Now may be replaced before first use (tests point
// Endpoint at an httptest server and Now at a fixed clock). After that the
// client is safe for concurrent use.
type Client struct {
	// Endpoint defaults to APIEndpoint.
	Endpoint string

	// HTTPClient defaults to a client with a 10 second timeout. The
	// upstream API wrapper had no timeout at all; the default here is a
	// deliberate addition.
	HTTPClient *http.Client

	// Now is the clock used by the date helpers, defaults to time.Now.
	Now func() time.Time

	apiToken string
}

// New returns a client using the given API bearer token. The token is not
// validated here; a bad token surfaces as ErrRemote on the first call.
func New(apiToken string) *Client {
	return &Client{
		Endpoint:   APIEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Now:        time.Now,
		apiToken:   apiToken,
	}
}

type rpcRequest struct {
	ID      int    `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Data struct {
		Message string `json:"message"`
	} `json:"data"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// call executes one JSON-RPC round-trip and returns the raw result member.
// Transport failures of any kind come back as ErrTransport, application
// errors as ErrRemote.
func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		ID:      0,
		JSONRPC: "2.0",
		Method:  methodPrefix + method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: got status %s", ErrTransport, res.Status)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}

	if len(resp.Error) > 0 {
		var re rpcError
		if err := json.Unmarshal(resp.Error, &re); err != nil || re.Data.Message == "" {
			// An error member without the expected shape is still an
			// application error, surfaced raw rather than defaulted.
			return nil, fmt.Errorf("%w: malformed error payload: %s", ErrRemote, resp.Error)
		}
		return nil, fmt.Errorf("%w: %s", ErrRemote, re.Data.Message)
	}

	return resp.Result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		// Some records carry fractional seconds or an explicit offset.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: parsing timestamp %q: %v", ErrTransport, s, err)
		}
	}
	return t.UTC(), nil
}
