package relay

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/options-data/internal/metrics"
	"github.com/rickgao/options-data/internal/model"
)

// QuoteSource reads persisted quotes for subscribers.
type QuoteSource interface {
	QuoteHistory(ctx context.Context, instrument string) ([]model.QuoteRow, error)
	QuotesSince(ctx context.Context, instrument string, cutoff time.Time) ([]model.QuoteRow, error)
}

// Config holds relay configuration.
type Config struct {
	Interval     time.Duration // Push poll interval (default: 1s)
	WriteTimeout time.Duration // Per-message write deadline (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Relay manages websocket subscribers and pushes quote updates.
type Relay struct {
	cfg       Config
	source    QuoteSource
	collector *metrics.Collector
	logger    *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Relay. The collector may be nil.
func New(cfg Config, source QuoteSource, collector *metrics.Collector, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Relay{
		cfg:       cfg,
		source:    source,
		collector: collector,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Start begins the push loop.
func (r *Relay) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.pushLoop()

	r.logger.Info("quote relay started", "interval", r.cfg.Interval)
	return nil
}

// Stop disconnects all clients and halts the push loop.
func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	r.mu.Lock()
	for c := range r.clients {
		c.close()
	}
	r.clients = make(map[*client]struct{})
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("quote relay stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeHTTP upgrades the request and serves the subscription protocol.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn, r.cfg.WriteTimeout)

	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()

	r.logger.Debug("websocket client connected", "remote", conn.RemoteAddr())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.readLoop(c)
	}()
}

// SubscriberCount reports active subscriptions across all clients.
func (r *Relay) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for c := range r.clients {
		n += c.subscriptionCount()
	}
	return n
}

// readLoop consumes subscribe and unsubscribe commands until the peer hangs up.
func (r *Relay) readLoop(c *client) {
	defer r.drop(c)

	for {
		var cmd command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "subscribe":
			r.subscribe(c, cmd.Instrument)
		case "unsubscribe":
			c.unsubscribe(cmd.Instrument)
			r.updateSubscriberGauge()
		default:
			c.sendError("unknown action: " + cmd.Action)
		}
	}
}

// subscribe registers the instrument and replies with its full history.
func (r *Relay) subscribe(c *client, instrument string) {
	if instrument == "" {
		c.sendError("missing instrument")
		return
	}

	history, err := r.source.QuoteHistory(r.ctx, instrument)
	if err != nil {
		r.logger.Error("history fetch failed", "instrument", instrument, "error", err)
		c.sendError("history unavailable")
		return
	}

	lastSeen := time.Time{}
	if len(history) > 0 {
		lastSeen = history[len(history)-1].Timestamp
	}

	c.subscribe(instrument, lastSeen)
	c.send(message{Type: "history", Instrument: instrument, Data: history})
	r.updateSubscriberGauge()
}

// pushLoop polls the store and pushes rows newer than each subscription's cursor.
func (r *Relay) pushLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.pushAll()
		}
	}
}

func (r *Relay) pushAll() {
	r.mu.Lock()
	clients := make([]*client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		for _, sub := range c.subscriptions() {
			rows, err := r.source.QuotesSince(r.ctx, sub.instrument, sub.lastSeen)
			if err != nil {
				if r.ctx.Err() != nil {
					return
				}
				r.logger.Error("update fetch failed", "instrument", sub.instrument, "error", err)
				continue
			}
			if len(rows) == 0 {
				continue
			}

			if err := c.send(message{Type: "update", Instrument: sub.instrument, Data: rows}); err != nil {
				r.drop(c)
				break
			}
			c.advance(sub.instrument, rows[len(rows)-1].Timestamp)
		}
	}
}

// drop closes and forgets a client. Safe to call twice.
func (r *Relay) drop(c *client) {
	r.mu.Lock()
	_, present := r.clients[c]
	delete(r.clients, c)
	r.mu.Unlock()

	if present {
		c.close()
		r.logger.Debug("websocket client disconnected")
		r.updateSubscriberGauge()
	}
}

func (r *Relay) updateSubscriberGauge() {
	if r.collector != nil {
		r.collector.SetRelaySubscribers(r.SubscriberCount())
	}
}
