// Package database constructs the pgx connection pool for the quoter.
//
// All reads and writes go through a single Postgres database holding the
// cryptocurrencies, crypto_prices and crypto_options tables (scripts/schema.sql).
package database
