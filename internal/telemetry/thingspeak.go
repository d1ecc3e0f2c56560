package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ThingSpeak sends records as a single unauthenticated GET to the ThingSpeak
// update endpoint: field1=east, field2=west, field3=direction ordinal,
// field4=angle.
type ThingSpeak struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewThingSpeak creates an HTTP uplink. timeout bounds each update request.
func NewThingSpeak(baseURL, apiKey string, timeout time.Duration) *ThingSpeak {
	return &ThingSpeak{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *ThingSpeak) Name() string { return "thingspeak" }

// Ready is a no-op: the transport is connectionless, and the scheduler's
// settle delay already covers network bring-up.
func (t *ThingSpeak) Ready(ctx context.Context) error { return nil }

// Send performs one update request. Any non-2xx status is an error.
func (t *ThingSpeak) Send(ctx context.Context, rec Record) error {
	q := url.Values{}
	q.Set("api_key", t.apiKey)
	q.Set("field1", strconv.Itoa(rec.East))
	q.Set("field2", strconv.Itoa(rec.West))
	q.Set("field3", strconv.Itoa(int(rec.Direction)))
	q.Set("field4", strconv.Itoa(rec.Angle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send update: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused between cycles.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("update rejected: %s", resp.Status)
	}
	return nil
}
