// Package engine orchestrates one pricing run per symbol.
//
// A run:
//   - fetches recent spot history through a HistoryProvider
//   - estimates instantaneous variance (v0) from log returns
//   - generates the strike grid and expands it into an instrument grid
//   - prices every instrument with the Heston model, fanned out across workers
//   - persists the quote batch through a QuoteSink
//
// Per-instrument failures are isolated; run-level failures (no usable history,
// store errors) abort the run and are retried on the next scheduled tick.
package engine
