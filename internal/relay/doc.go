// Package relay pushes quote updates to websocket subscribers.
//
// Clients subscribe to instruments by name. A subscription is answered with
// the instrument's full history, then a poll loop pushes any rows newer than
// the last delivered timestamp at the configured interval. The relay reads
// from the store rather than hooking the pricing engine, so subscribers see
// exactly what was persisted.
package relay
