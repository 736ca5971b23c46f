// Package scheduler drives periodic pricing runs.
//
// A cron job fires at the configured interval and prices every tracked
// symbol sequentially. Cycles that outlast the interval are skipped rather
// than stacked, so a slow database cannot pile up concurrent runs.
package scheduler
