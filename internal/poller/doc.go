// Package poller periodically fetches live spot prices from the Pyth feed.
//
// Each cycle fetches every configured symbol concurrently under a semaphore
// and hands decoded samples to a PriceHandler. A symbol that fails one cycle
// is logged and retried on the next tick; it never aborts the cycle.
package poller
