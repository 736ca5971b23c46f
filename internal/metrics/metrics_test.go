package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorExposesMetrics(t *testing.T) {
	c, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	c.ObserveRun("ETH", "ok", 250*time.Millisecond)
	c.AddQuotesWritten("ETH", 44)
	c.AddNonConverged(1)
	c.ObserveFetch("ETH", "ok")
	c.SetRelaySubscribers(3)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)

	for _, want := range []string{
		`quoter_engine_runs_total{status="ok",symbol="ETH"} 1`,
		`quoter_engine_quotes_written_total{symbol="ETH"} 44`,
		"quoter_engine_non_converged_total 1",
		`quoter_feed_fetches_total{status="ok",symbol="ETH"} 1`,
		"quoter_relay_subscribers 3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	if _, err := NewCollector(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCollector(); err != nil {
		t.Errorf("second collector should register cleanly: %v", err)
	}
}
