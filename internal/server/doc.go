// Package server exposes the quoter's HTTP API.
//
// Read endpoints serve persisted quotes, /ws upgrades to the websocket
// relay, and /metrics exposes Prometheus metrics. Writes happen only
// through the poller and pricing engine; the API is read-only.
package server
