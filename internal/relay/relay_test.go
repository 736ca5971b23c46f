package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/options-data/internal/model"
)

type fakeSource struct {
	mu   sync.Mutex
	rows map[string][]model.QuoteRow
}

func newFakeSource() *fakeSource {
	return &fakeSource{rows: make(map[string][]model.QuoteRow)}
}

func (f *fakeSource) add(instrument string, row model.QuoteRow) {
	f.mu.Lock()
	f.rows[instrument] = append(f.rows[instrument], row)
	f.mu.Unlock()
}

func (f *fakeSource) QuoteHistory(ctx context.Context, instrument string) ([]model.QuoteRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.QuoteRow, len(f.rows[instrument]))
	copy(out, f.rows[instrument])
	return out, nil
}

func (f *fakeSource) QuotesSince(ctx context.Context, instrument string, cutoff time.Time) ([]model.QuoteRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.QuoteRow
	for _, r := range f.rows[instrument] {
		if r.Timestamp.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func quoteRow(instrument string, price float64, ts time.Time) model.QuoteRow {
	return model.QuoteRow{
		InstrumentName: instrument,
		HestonPrice:    price,
		StrikePrice:    1800,
		ExpirationDate: ts.Add(7 * 24 * time.Hour).Unix(),
		OptionType:     "call",
		Timestamp:      ts,
	}
}

func dialRelay(t *testing.T, r *Relay) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(r)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestSubscribeDeliversHistory(t *testing.T) {
	source := newFakeSource()
	base := time.Now().UTC().Truncate(time.Second)
	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.32, base.Add(-2*time.Second)))
	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.35, base.Add(-time.Second)))

	r := New(Config{Interval: time.Hour}, source, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Stop(context.Background())

	conn, cleanup := dialRelay(t, r)
	defer cleanup()

	if err := conn.WriteJSON(command{Action: "subscribe", Instrument: "ETH-1800-7d-call"}); err != nil {
		t.Fatal(err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "history" {
		t.Fatalf("message type = %q, want history", msg.Type)
	}
	if msg.Instrument != "ETH-1800-7d-call" {
		t.Errorf("instrument = %q", msg.Instrument)
	}
	if len(msg.Data) != 2 {
		t.Fatalf("history rows = %d, want 2", len(msg.Data))
	}
	if msg.Data[1].HestonPrice != 12.35 {
		t.Errorf("last history price = %v, want 12.35", msg.Data[1].HestonPrice)
	}
}

func TestPushesNewQuotes(t *testing.T) {
	source := newFakeSource()
	base := time.Now().UTC().Truncate(time.Second)
	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.32, base))

	r := New(Config{Interval: 20 * time.Millisecond}, source, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Stop(context.Background())

	conn, cleanup := dialRelay(t, r)
	defer cleanup()

	if err := conn.WriteJSON(command{Action: "subscribe", Instrument: "ETH-1800-7d-call"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != "history" {
		t.Fatalf("expected history first, got %q", msg.Type)
	}

	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.40, base.Add(time.Second)))

	msg := readMessage(t, conn)
	if msg.Type != "update" {
		t.Fatalf("message type = %q, want update", msg.Type)
	}
	if len(msg.Data) != 1 || msg.Data[0].HestonPrice != 12.40 {
		t.Errorf("update data = %+v, want single row at 12.40", msg.Data)
	}

	// Cursor advanced: the same row is not re-delivered.
	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.45, base.Add(2*time.Second)))
	msg = readMessage(t, conn)
	if len(msg.Data) != 1 || msg.Data[0].HestonPrice != 12.45 {
		t.Errorf("second update = %+v, want single row at 12.45", msg.Data)
	}
}

func TestUnknownActionReturnsError(t *testing.T) {
	r := New(Config{Interval: time.Hour}, newFakeSource(), nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Stop(context.Background())

	conn, cleanup := dialRelay(t, r)
	defer cleanup()

	if err := conn.WriteJSON(command{Action: "replay"}); err != nil {
		t.Fatal(err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "error" {
		t.Errorf("message type = %q, want error", msg.Type)
	}
}

func TestUnsubscribeStopsUpdates(t *testing.T) {
	source := newFakeSource()
	base := time.Now().UTC().Truncate(time.Second)
	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.32, base))

	r := New(Config{Interval: 20 * time.Millisecond}, source, nil, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer r.Stop(context.Background())

	conn, cleanup := dialRelay(t, r)
	defer cleanup()

	if err := conn.WriteJSON(command{Action: "subscribe", Instrument: "ETH-1800-7d-call"}); err != nil {
		t.Fatal(err)
	}
	readMessage(t, conn)

	if err := conn.WriteJSON(command{Action: "unsubscribe", Instrument: "ETH-1800-7d-call"}); err != nil {
		t.Fatal(err)
	}

	// Give the relay time to process the unsubscribe before adding rows.
	deadline := time.Now().Add(2 * time.Second)
	for r.SubscriberCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.SubscriberCount() != 0 {
		t.Fatal("subscription not removed")
	}

	source.add("ETH-1800-7d-call", quoteRow("ETH-1800-7d-call", 12.40, base.Add(time.Second)))

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var msg message
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("received %+v after unsubscribe", msg)
	}
}
