// Package store is the persistence layer over the quoter's Postgres schema.
//
// Store wraps a pgxpool.Pool with typed reads and batched upserts for the
// cryptocurrencies, crypto_prices and crypto_options tables. PriceWriter
// buffers live spot samples and flushes them in batches, so a slow database
// never stalls the feed poller.
package store
