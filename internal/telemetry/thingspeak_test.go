package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cjeanneret/heliogo/internal/logic/sun"
)

func testRecord() Record {
	return Record{
		Time:      time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC),
		East:      2000,
		West:      1500,
		Direction: sun.East,
		Angle:     30,
		Duty:      334,
	}
}

func TestThingSpeak_SendEncodesFields(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("1"))
	}))
	defer srv.Close()

	ts := NewThingSpeak(srv.URL, "WRITEKEY", 2*time.Second)
	if err := ts.Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := map[string]string{
		"api_key": "WRITEKEY",
		"field1":  "2000",
		"field2":  "1500",
		"field3":  "0", // east ordinal
		"field4":  "30",
	}
	for k, v := range want {
		if got := gotQuery.Get(k); got != v {
			t.Errorf("query %s = %q, want %q", k, got, v)
		}
	}
}

func TestThingSpeak_SendDirectionOrdinals(t *testing.T) {
	var field3 string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		field3 = r.URL.Query().Get("field3")
	}))
	defer srv.Close()

	ts := NewThingSpeak(srv.URL, "k", time.Second)

	cases := []struct {
		d    sun.Direction
		want string
	}{
		{sun.East, "0"},
		{sun.Overhead, "1"},
		{sun.West, "2"},
	}
	for _, tc := range cases {
		rec := testRecord()
		rec.Direction = tc.d
		if err := ts.Send(context.Background(), rec); err != nil {
			t.Fatalf("Send(%v): %v", tc.d, err)
		}
		if field3 != tc.want {
			t.Errorf("field3 for %v = %q, want %q", tc.d, field3, tc.want)
		}
	}
}

func TestThingSpeak_SendRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ts := NewThingSpeak(srv.URL, "k", time.Second)
	if err := ts.Send(context.Background(), testRecord()); err == nil {
		t.Fatal("Send accepted a non-2xx response")
	}
}

func TestThingSpeak_SendHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ts := NewThingSpeak(srv.URL, "k", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := ts.Send(ctx, testRecord()); err == nil {
		t.Fatal("Send did not fail on context timeout")
	}
}

func TestThingSpeak_Ready(t *testing.T) {
	ts := NewThingSpeak("http://example.invalid", "k", time.Second)
	if err := ts.Ready(context.Background()); err != nil {
		t.Errorf("Ready: %v", err)
	}
}

func TestNop(t *testing.T) {
	var up Uplink = Nop{}
	if err := up.Ready(context.Background()); err != nil {
		t.Errorf("Ready: %v", err)
	}
	if err := up.Send(context.Background(), testRecord()); err != nil {
		t.Errorf("Send: %v", err)
	}
	if up.Name() != "none" {
		t.Errorf("Name = %q", up.Name())
	}
}
