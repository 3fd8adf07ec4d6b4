package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// sampleTimes returns a small valid times mapping.
func sampleTimes() map[string]map[string]string {
	return map[string]map[string]string{
		"2025-01-01": {
			"fajr":       "06:25",
			"fajr_jamat": "06:45",
			"magrib":     "16:06",
		},
		"2025-01-02": {
			"fajr":   "06:25",
			"magrib": "16:07",
		},
	}
}

func serveTimes(t *testing.T, times map[string]map[string]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"times": times})
	}
}

// newTestClient builds a client pointed at the given endpoints with a
// backoff short enough for tests.
func newTestClient(endpoints ...string) *Client {
	c := NewClient("test-key")
	c.Endpoints = endpoints
	c.Backoff = time.Millisecond
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("k")
	if len(c.Endpoints) != 2 {
		t.Errorf("len(Endpoints) = %d, want 2", len(c.Endpoints))
	}
	if c.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", c.MaxAttempts)
	}
	for _, e := range c.Endpoints {
		if !strings.Contains(e, "londonprayertimes.com/api/times/") {
			t.Errorf("unexpected endpoint %q", e)
		}
	}
}

func TestFetchYear_Success(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		serveTimes(t, sampleTimes())(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL + "/api/times/")
	times, err := c.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(times) != 2 {
		t.Errorf("len(times) = %d, want 2", len(times))
	}
	if times["2025-01-01"]["magrib"] != "16:06" {
		t.Errorf("magrib = %q, want %q", times["2025-01-01"]["magrib"], "16:06")
	}

	q := gotQuery.Load().(url.Values)
	checks := map[string]string{
		"format":  "json",
		"key":     "test-key",
		"24hours": "true",
		"year":    "2025",
	}
	for param, want := range checks {
		if got := q[param]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %q", param, got, want)
		}
	}
}

func TestFetchYear_SecondEndpointWins(t *testing.T) {
	var badCalls, goodCalls int32

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&badCalls, 1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&goodCalls, 1)
		serveTimes(t, sampleTimes())(w, r)
	}))
	defer good.Close()

	c := newTestClient(bad.URL, good.URL)
	_, err := c.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 404 is not retryable at the transport level, so the bad endpoint
	// is hit exactly once before rotation.
	if n := atomic.LoadInt32(&badCalls); n != 1 {
		t.Errorf("bad endpoint calls = %d, want 1", n)
	}
	if n := atomic.LoadInt32(&goodCalls); n != 1 {
		t.Errorf("good endpoint calls = %d, want 1", n)
	}
}

func TestFetchYear_FirstValidStopsRotation(t *testing.T) {
	var secondCalls int32

	first := httptest.NewServer(serveTimes(t, sampleTimes()))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&secondCalls, 1)
		serveTimes(t, sampleTimes())(w, r)
	}))
	defer second.Close()

	c := newTestClient(first.URL, second.URL)
	if _, err := c.FetchYear(context.Background(), 2025); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := atomic.LoadInt32(&secondCalls); n != 0 {
		t.Errorf("second endpoint calls = %d, want 0", n)
	}
}

func TestFetchYear_TransportRetryOn5xx(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		serveTimes(t, sampleTimes())(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two 503s consumed by the backoff layer, third try succeeds,
	// all within a single endpoint attempt.
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server calls = %d, want 3", n)
	}
}

func TestFetchYear_MissingTimesIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.MaxAttempts = 1

	_, err := c.FetchYear(context.Background(), 2025)
	if err == nil {
		t.Fatal("expected error for response without times")
	}
	if !strings.Contains(err.Error(), "'times'") {
		t.Errorf("error %q does not mention the times field", err.Error())
	}
}

func TestFetchYear_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.MaxAttempts = 1

	if _, err := c.FetchYear(context.Background(), 2025); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestFetchYear_ExhaustionReturnsFetchError(t *testing.T) {
	var aCalls, bCalls int32

	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&aCalls, 1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer a.Close()

	b := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&bCalls, 1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer b.Close()

	c := newTestClient(a.URL, b.URL)
	c.MaxAttempts = 2

	_, err := c.FetchYear(context.Background(), 2025)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fetchErr.Year != 2025 {
		t.Errorf("Year = %d, want 2025", fetchErr.Year)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("FetchError does not wrap the underlying error")
	}
	if !strings.Contains(err.Error(), "2025") {
		t.Errorf("error %q does not name the year", err.Error())
	}

	// Every endpoint tried on every attempt: 2 attempts x 2 endpoints.
	if n := atomic.LoadInt32(&aCalls); n != 2 {
		t.Errorf("endpoint A calls = %d, want 2", n)
	}
	if n := atomic.LoadInt32(&bCalls); n != 2 {
		t.Errorf("endpoint B calls = %d, want 2", n)
	}
}

func TestFetchYears_MergesYears(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		year := r.URL.Query().Get("year")
		times := map[string]map[string]string{
			year + "-06-01": {"fajr": "03:00"},
		}
		serveTimes(t, times)(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	combined, err := c.FetchYears(context.Background(), []int{2024, 2025})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, date := range []string{"2024-06-01", "2025-06-01"} {
		if _, ok := combined[date]; !ok {
			t.Errorf("combined missing %q", date)
		}
	}
}

func TestFetchYears_PartialResultOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") == "2025" {
			http.Error(w, "nope", http.StatusForbidden)
			return
		}
		serveTimes(t, map[string]map[string]string{"2024-06-01": {"fajr": "03:00"}})(w, r)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.MaxAttempts = 1

	combined, err := c.FetchYears(context.Background(), []int{2024, 2025})
	if err == nil {
		t.Fatal("expected error for failed year")
	}
	if _, ok := combined["2024-06-01"]; !ok {
		t.Error("partial result for 2024 was discarded")
	}
}
