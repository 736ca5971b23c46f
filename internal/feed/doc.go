// Package feed is a client for the Pyth Hermes price API.
//
// Hermes serves signed price updates per feed id over plain HTTPS with no
// authentication. The client retries transient failures with exponential
// backoff and decodes Pyth's fixed-point price encoding into floats.
package feed
