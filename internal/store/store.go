package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/options-data/internal/model"
)

// Store provides typed access to the quoter's tables.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store over an existing pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Assets returns all tracked cryptocurrencies.
func (s *Store) Assets(ctx context.Context) ([]model.Asset, error) {
	rows, err := s.db.Query(ctx, `
		SELECT crypto_id, symbol
		FROM cryptocurrencies
		ORDER BY crypto_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query cryptocurrencies: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Symbol); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// EnsureAsset inserts a symbol if it is not yet tracked and returns its id.
func (s *Store) EnsureAsset(ctx context.Context, symbol string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO cryptocurrencies (symbol)
		VALUES ($1)
		ON CONFLICT (symbol) DO UPDATE SET symbol = EXCLUDED.symbol
		RETURNING crypto_id
	`, symbol).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure asset %s: %w", symbol, err)
	}
	return id, nil
}

// SpotHistory returns the most recent closing prices for a symbol, newest
// first, along with the asset id. Callers that need chronological order must
// reorder.
func (s *Store) SpotHistory(ctx context.Context, symbol string, limit int) ([]model.SpotSample, int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.timestamp, p.close, cr.crypto_id
		FROM crypto_prices p
		JOIN cryptocurrencies cr ON cr.crypto_id = p.crypto_id
		WHERE cr.symbol = $1
		ORDER BY p.timestamp DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query spot history for %s: %w", symbol, err)
	}
	defer rows.Close()

	var (
		samples  []model.SpotSample
		cryptoID int64
	)
	for rows.Next() {
		var sample model.SpotSample
		if err := rows.Scan(&sample.Timestamp, &sample.Close, &cryptoID); err != nil {
			return nil, 0, fmt.Errorf("scan spot sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, cryptoID, rows.Err()
}

// UpsertPrices writes spot samples to crypto_prices. A sample arriving twice
// for the same (crypto_id, timestamp) overwrites the prior row.
func (s *Store) UpsertPrices(ctx context.Context, samples []model.PriceSample) error {
	if len(samples) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range samples {
		batch.Queue(`
			INSERT INTO crypto_prices (crypto_id, timestamp, open, high, low, close, volume, symbol)
			VALUES ($1, $2, $3, $3, $3, $3, 0, $4)
			ON CONFLICT (crypto_id, timestamp) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close
		`, p.CryptoID, p.Timestamp, p.Price, p.Symbol)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range samples {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert price: %w", err)
		}
	}
	return nil
}

// UpsertQuotes writes a pricing run's quotes to crypto_options. Re-pricing
// the same instrument within one timestamp overwrites the model price.
func (s *Store) UpsertQuotes(ctx context.Context, quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, q := range quotes {
		strike, _ := q.Strike.Float64()
		batch.Queue(`
			INSERT INTO crypto_options (instrument_name, timestamp, crypto_id, heston_price, strike_price, expiration_date, option_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (instrument_name, timestamp) DO UPDATE SET
				heston_price = EXCLUDED.heston_price
		`, q.InstrumentName, q.ComputedAt, q.CryptoID, q.Mid, strike, q.ExpirationTS, string(q.Type))
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range quotes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert quote: %w", err)
		}
	}
	return nil
}

// LatestQuotes returns the most recent row per instrument across all
// instruments, ordered by instrument name.
func (s *Store) LatestQuotes(ctx context.Context) ([]model.QuoteRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT ON (instrument_name)
			instrument_name, heston_price, strike_price, expiration_date, option_type, timestamp
		FROM crypto_options
		ORDER BY instrument_name, timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query latest quotes: %w", err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// QuoteHistory returns all rows for one instrument in chronological order.
func (s *Store) QuoteHistory(ctx context.Context, instrument string) ([]model.QuoteRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT instrument_name, heston_price, strike_price, expiration_date, option_type, timestamp
		FROM crypto_options
		WHERE instrument_name = $1
		ORDER BY timestamp ASC
	`, instrument)
	if err != nil {
		return nil, fmt.Errorf("query quote history for %s: %w", instrument, err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// LatestQuote returns the newest row for one instrument. The bool reports
// whether the instrument exists at all.
func (s *Store) LatestQuote(ctx context.Context, instrument string) (model.QuoteRow, bool, error) {
	var q model.QuoteRow
	err := s.db.QueryRow(ctx, `
		SELECT instrument_name, heston_price, strike_price, expiration_date, option_type, timestamp
		FROM crypto_options
		WHERE instrument_name = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, instrument).Scan(&q.InstrumentName, &q.HestonPrice, &q.StrikePrice, &q.ExpirationDate, &q.OptionType, &q.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.QuoteRow{}, false, nil
	}
	if err != nil {
		return model.QuoteRow{}, false, fmt.Errorf("query latest quote for %s: %w", instrument, err)
	}
	return q, true, nil
}

// QuotesSince returns rows for one instrument strictly newer than the cutoff,
// oldest first. Used by the websocket relay to push incremental updates.
func (s *Store) QuotesSince(ctx context.Context, instrument string, cutoff time.Time) ([]model.QuoteRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT instrument_name, heston_price, strike_price, expiration_date, option_type, timestamp
		FROM crypto_options
		WHERE instrument_name = $1 AND timestamp > $2
		ORDER BY timestamp ASC
	`, instrument, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query quotes since for %s: %w", instrument, err)
	}
	defer rows.Close()

	return scanQuoteRows(rows)
}

// Ping verifies database connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanQuoteRows(rows pgx.Rows) ([]model.QuoteRow, error) {
	var out []model.QuoteRow
	for rows.Next() {
		var q model.QuoteRow
		if err := rows.Scan(&q.InstrumentName, &q.HestonPrice, &q.StrikePrice, &q.ExpirationDate, &q.OptionType, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
