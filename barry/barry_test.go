package barry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// capturedRequest is what the fake endpoint saw for the last call.
type capturedRequest struct {
	Authorization string
	ContentType   string
	ID            int    `json:"id"`
	JSONRPC       string `json:"jsonrpc"`
	Method        string `json:"method"`
	Params        []any  `json:"params"`
}

// newTestClient returns a client pointed at a fake endpoint that replies with
// the given body and records the request it received.
func newTestClient(t *testing.T, reply string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Authorization = r.Header.Get("Authorization")
		captured.ContentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		if err := json.Unmarshal(body, captured); err != nil {
			t.Errorf("unmarshalling request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(reply)); err != nil {
			t.Errorf("writing reply: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	c := New("test-token")
	c.Endpoint = srv.URL
	return c, captured
}

func TestSpotPricesRequestAndMapping(t *testing.T) {
	c, captured := newTestClient(t, `{"result": [
		{"start": "2024-01-01T00:00:00Z", "value": 1.25},
		{"start": "2024-01-01T01:00:00Z", "value": 1.5},
		{"start": "2024-01-01T01:00:00Z", "value": 1.75}
	]}`)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices, err := c.SpotPrices(context.Background(), DKNordpoolSpotDK1, start, end)
	if err != nil {
		t.Fatalf("SpotPrices() unexpected error: %v", err)
	}

	if captured.Authorization != "Bearer test-token" {
		t.Errorf("expected bearer token header, got %q", captured.Authorization)
	}
	if captured.ContentType != "application/json" {
		t.Errorf("expected json content type, got %q", captured.ContentType)
	}
	if captured.ID != 0 || captured.JSONRPC != "2.0" {
		t.Errorf("bad envelope: id=%d jsonrpc=%q", captured.ID, captured.JSONRPC)
	}
	if captured.Method != "co.getbarry.api.v1.OpenApiController.getPrice" {
		t.Errorf("unexpected method %q", captured.Method)
	}

	wantParams := []any{"DK_NORDPOOL_SPOT_DK1", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"}
	if len(captured.Params) != len(wantParams) {
		t.Fatalf("expected %d params, got %v", len(wantParams), captured.Params)
	}
	for i, want := range wantParams {
		if captured.Params[i] != want {
			t.Errorf("param %d: expected %v, got %v", i, want, captured.Params[i])
		}
	}

	// Three records, two hours: the later duplicate wins.
	if len(prices) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(prices))
	}
	if got := prices[start]; got != 1.25 {
		t.Errorf("price at %v: expected 1.25, got %v", start, got)
	}
	if got := prices[start.Add(time.Hour)]; got != 1.75 {
		t.Errorf("price at %v: expected 1.75 (duplicate overwrite), got %v", start.Add(time.Hour), got)
	}
}

func TestSpotPricesFormatsNonUTCWallClock(t *testing.T) {
	c, captured := newTestClient(t, `{"result": []}`)

	loc := time.FixedZone("CET", 3600)
	start := time.Date(2024, 6, 1, 14, 30, 45, 123456789, loc)
	if _, err := c.SpotPrices(context.Background(), FREpexSpotFR, start, start.Add(OneDay)); err != nil {
		t.Fatalf("SpotPrices() unexpected error: %v", err)
	}

	// Formatting converts to UTC and drops sub-second precision.
	if captured.Params[1] != "2024-06-01T13:30:45Z" {
		t.Errorf("expected start formatted as 2024-06-01T13:30:45Z, got %v", captured.Params[1])
	}
}

func TestSpotPricesRejectsUnknownArea(t *testing.T) {
	c := New("t")
	c.Endpoint = "http://127.0.0.1:0" // must not be contacted

	_, err := c.SpotPrices(context.Background(), PriceArea("SE_WHATEVER"), time.Now(), time.Now())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMeteringPointsPassThrough(t *testing.T) {
	c, captured := newTestClient(t, `{"result": [
		{"mpid": 100, "type": "consumption", "address": {"city": "Aarhus"}},
		{"mpid": 200, "type": "production"}
	]}`)

	points, err := c.MeteringPoints(context.Background())
	if err != nil {
		t.Fatalf("MeteringPoints() unexpected error: %v", err)
	}

	if captured.Method != "co.getbarry.api.v1.OpenApiController.getMeteringPoints" {
		t.Errorf("unexpected method %q", captured.Method)
	}
	if len(captured.Params) != 0 {
		t.Errorf("expected empty params, got %v", captured.Params)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(points))
	}

	// Descriptors come back undecoded.
	var first map[string]any
	if err := json.Unmarshal(points[0], &first); err != nil {
		t.Fatalf("descriptor is not raw JSON: %v", err)
	}
	if first["type"] != "consumption" {
		t.Errorf("expected first descriptor type consumption, got %v", first["type"])
	}
}

func TestConsumptionRejectsNarrowRange(t *testing.T) {
	c := New("t")
	c.Endpoint = "http://127.0.0.1:0" // any network use would fail loudly
	c.HTTPClient = &http.Client{Transport: failingTransport{t}}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
	}{
		{"twelve hours", start.Add(12 * time.Hour)},
		{"reversed twelve hours", start.Add(-12 * time.Hour)},
		{"just under a day", start.Add(OneDay - time.Second)},
		{"zero span", start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Consumption(context.Background(), start, tt.end)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// A reversed span of at least a day is fine (absolute span counts).
	t.Run("reversed full day passes validation", func(t *testing.T) {
		c, _ := newTestClient(t, `{"result": []}`)
		if _, err := c.Consumption(context.Background(), start.Add(OneDay), start); err != nil {
			t.Fatalf("reversed one-day span should pass validation, got %v", err)
		}
	})
}

// failingTransport makes any accidental network call fail the test.
type failingTransport struct{ t *testing.T }

func (f failingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.t.Errorf("unexpected network call to %s", r.URL)
	return nil, errors.New("no network in this test")
}

func TestConsumptionGrouping(t *testing.T) {
	c, captured := newTestClient(t, `{"result": [
		{"mpid": "A", "quantity": 0.5, "start": "2024-01-01T00:00:00Z"},
		{"mpid": "A", "quantity": 0.75, "start": "2024-01-01T01:00:00Z"},
		{"mpid": "B", "quantity": 1.5, "start": "2024-01-01T00:00:00Z"}
	]}`)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * OneDay)
	points, err := c.Consumption(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Consumption() unexpected error: %v", err)
	}

	if captured.Method != "co.getbarry.api.v1.OpenApiController.getAggregatedConsumption" {
		t.Errorf("unexpected method %q", captured.Method)
	}
	if len(captured.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", captured.Params)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 metering points, got %d", len(points))
	}
	if len(points["A"]) != 2 || len(points["B"]) != 1 {
		t.Fatalf("bad grouping: A=%d B=%d", len(points["A"]), len(points["B"]))
	}
	if got := points["A"][start.Add(time.Hour)]; got != 0.75 {
		t.Errorf("A at 01:00: expected 0.75, got %v", got)
	}
	if got := points["B"][start]; got != 1.5 {
		t.Errorf("B at 00:00: expected 1.5, got %v", got)
	}
}

func TestConsumptionForPoint(t *testing.T) {
	reply := `{"result": [
		{"mpid": "A", "quantity": 0.5, "start": "2024-01-01T00:00:00Z"},
		{"mpid": "B", "quantity": 1.5, "start": "2024-01-01T00:00:00Z"}
	]}`

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * OneDay)

	c, _ := newTestClient(t, reply)
	point, err := c.ConsumptionForPoint(context.Background(), start, end, "A")
	if err != nil {
		t.Fatalf("ConsumptionForPoint() unexpected error: %v", err)
	}
	if len(point) != 1 || point[start] != 0.5 {
		t.Errorf("expected {%v: 0.5}, got %v", start, point)
	}

	c, _ = newTestClient(t, reply)
	_, err = c.ConsumptionForPoint(context.Background(), start, end, "C")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent mpid, got %v", err)
	}
}

func TestConsumptionMpidWireForms(t *testing.T) {
	// Some contracts report mpids as JSON strings, others as JSON numbers.
	// Either form groups under its string rendering.
	c, _ := newTestClient(t, `{"result": [
		{"mpid": 571313174112345678, "quantity": 0.25, "start": "2024-01-01T00:00:00Z"},
		{"mpid": "571313174187654321", "quantity": 0.5, "start": "2024-01-01T00:00:00Z"}
	]}`)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points, err := c.Consumption(context.Background(), start, start.Add(OneDay))
	if err != nil {
		t.Fatalf("Consumption() unexpected error: %v", err)
	}
	if _, ok := points["571313174112345678"]; !ok {
		t.Fatalf("expected numeric mpid keyed as string, got %v", points)
	}
	if got := points["571313174187654321"][start]; got != 0.5 {
		t.Fatalf("expected string mpid kept as-is with 0.5 at %v, got %v", start, points)
	}
}

func TestTotalKWhPriceClampsWindow(t *testing.T) {
	c, captured := newTestClient(t, `{"result": {"value": 2.05, "currency": "DKK"}}`)

	start := time.Date(2024, 3, 5, 14, 37, 22, 0, time.UTC)
	end := start.Add(90 * OneDay) // deliberately absurd, must be ignored
	quotes, err := c.TotalKWhPrice(context.Background(), start, end, 42)
	if err != nil {
		t.Fatalf("TotalKWhPrice() unexpected error: %v", err)
	}

	if captured.Method != "co.getbarry.api.v1.OpenApiController.getTotalKwHPrice" {
		t.Errorf("unexpected method %q", captured.Method)
	}
	if len(captured.Params) != 3 {
		t.Fatalf("expected 3 params, got %v", captured.Params)
	}
	// json decodes the numeric mpid as float64.
	if mpid, ok := captured.Params[0].(float64); !ok || mpid != 42 {
		t.Errorf("expected mpid 42, got %v", captured.Params[0])
	}
	if captured.Params[1] != "2024-03-05T14:00:00Z" {
		t.Errorf("expected start clamped to 2024-03-05T14:00:00Z, got %v", captured.Params[1])
	}
	if captured.Params[2] != "2024-03-05T15:00:00Z" {
		t.Errorf("expected end forced to start+1h, got %v", captured.Params[2])
	}

	if len(quotes) != 1 {
		t.Fatalf("expected a single quote, got %d", len(quotes))
	}
	q := quotes[0]
	wantStart := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	if !q.Start.Equal(wantStart) {
		t.Errorf("quote start: expected %v, got %v", wantStart, q.Start)
	}
	if q.Price != 2.05 || q.Currency != "DKK" {
		t.Errorf("quote: expected 2.05 DKK, got %v %v", q.Price, q.Currency)
	}
}

func TestRemoteError(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * OneDay)
	reply := `{"error": {"code": -32000, "data": {"message": "bad token"}}}`

	ops := []struct {
		name string
		call func(c *Client) error
	}{
		{"SpotPrices", func(c *Client) error {
			_, err := c.SpotPrices(context.Background(), DKNordpoolSpotDK2, start, end)
			return err
		}},
		{"MeteringPoints", func(c *Client) error {
			_, err := c.MeteringPoints(context.Background())
			return err
		}},
		{"Consumption", func(c *Client) error {
			_, err := c.Consumption(context.Background(), start, end)
			return err
		}},
		{"TotalKWhPrice", func(c *Client) error {
			_, err := c.TotalKWhPrice(context.Background(), start, end, 1)
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			c, _ := newTestClient(t, reply)
			err := op.call(c)
			if !errors.Is(err, ErrRemote) {
				t.Fatalf("expected ErrRemote, got %v", err)
			}
			if !errors.Is(err, Err) {
				t.Errorf("ErrRemote should match the package root error")
			}
			if want := "bad token"; err == nil || !strings.Contains(err.Error(), want) {
				t.Errorf("expected message %q in %v", want, err)
			}
		})
	}
}

func TestRemoteErrorMalformedShape(t *testing.T) {
	c, _ := newTestClient(t, `{"error": {"code": -32000}}`)
	_, err := c.MeteringPoints(context.Background())
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote for malformed error payload, got %v", err)
	}
	if !strings.Contains(err.Error(), "malformed error payload") {
		t.Errorf("expected the raw payload surfaced, got %v", err)
	}
}

func TestTransportErrors(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * OneDay)

	t.Run("connection refused", func(t *testing.T) {
		// A server that is already gone.
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := New("t")
		c.Endpoint = url
		ops := []func() error{
			func() error { _, err := c.SpotPrices(context.Background(), FREpexSpotFR, start, end); return err },
			func() error { _, err := c.MeteringPoints(context.Background()); return err },
			func() error { _, err := c.Consumption(context.Background(), start, end); return err },
			func() error { _, err := c.TotalKWhPrice(context.Background(), start, end, 1); return err },
		}
		for _, op := range ops {
			if err := op(); !errors.Is(err, ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		c := New("t")
		c.Endpoint = srv.URL
		_, err := c.MeteringPoints(context.Background())
		if !errors.Is(err, ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("unparsable body", func(t *testing.T) {
		c, _ := newTestClient(t, `this is not json`)
		_, err := c.MeteringPoints(context.Background())
		if !errors.Is(err, ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
	})
}
