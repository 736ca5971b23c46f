package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const ethFeedID = "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace"

func TestLatestPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/updates/price/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids[]"); got != ethFeedID {
			t.Errorf("ids[] = %q, want %q", got, ethFeedID)
		}
		fmt.Fprintf(w, `{"parsed":[{"id":%q,"price":{"price":"180012345678","conf":"12345","expo":-8,"publish_time":1756400000}}]}`, ethFeedID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	update, err := c.LatestPrice(context.Background(), ethFeedID)
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}

	if update.FeedID != ethFeedID {
		t.Errorf("FeedID = %q, want %q", update.FeedID, ethFeedID)
	}
	if math.Abs(update.Price-1800.12345678) > 1e-9 {
		t.Errorf("Price = %v, want 1800.12345678", update.Price)
	}
	if want := time.Unix(1756400000, 0).UTC(); !update.PublishTime.Equal(want) {
		t.Errorf("PublishTime = %v, want %v", update.PublishTime, want)
	}
}

func TestLatestPriceEmptyParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"parsed":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.LatestPrice(context.Background(), ethFeedID); err == nil {
		t.Error("expected error for empty parsed array")
	}
}

func TestLatestPriceRejectsNonPositive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"parsed":[{"id":%q,"price":{"price":"0","conf":"0","expo":-8,"publish_time":1756400000}}]}`, ethFeedID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.LatestPrice(context.Background(), ethFeedID); err == nil {
		t.Error("expected error for zero price")
	}
}

func TestRetryOn5xx(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"parsed":[{"id":%q,"price":{"price":"5500000000","conf":"1","expo":-8,"publish_time":1756400000}}]}`, ethFeedID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	update, err := c.LatestPrice(context.Background(), ethFeedID)
	if err != nil {
		t.Fatalf("LatestPrice failed after retries: %v", err)
	}
	if math.Abs(update.Price-55) > 1e-9 {
		t.Errorf("Price = %v, want 55", update.Price)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	_, err := c.LatestPrice(context.Background(), ethFeedID)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("404 should not be retryable")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}
