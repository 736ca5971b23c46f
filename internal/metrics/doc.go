// Package metrics exposes Prometheus metrics for the quoter.
package metrics
