// Package model defines shared data types used across the options quote service.
//
// Conventions:
//   - Spot prices and option prices: float64 (the pricing math runs on IEEE-754 doubles)
//   - Strikes: decimal.Decimal, exact post-tick-rounding values that also drive
//     instrument name rendering
//   - Expiration timestamps: int64 Unix seconds
//   - IDs: int64 crypto ids, string instrument names
package model
