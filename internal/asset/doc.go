// Package asset maintains the in-memory registry of tracked cryptocurrencies.
//
// The registry is loaded from the database at startup, creating rows for any
// configured symbols that are not yet tracked, and serves symbol to asset id
// lookups to the poller and pricing engine without further database trips.
package asset
