// Package config loads and validates the quoter service configuration.
//
// Configuration is YAML with ${VAR} environment expansion. Loading is split
// into three layers: Load (parse only), LoadWithDefaults (fill optional
// fields), and LoadAndValidate (reject inconsistent values).
package config
