// Package config loads the service configuration.
//
// Values come from, in order of precedence:
//
//  1. Environment variables prefixed with SLA_ (e.g. SLA_SERVER_PORT=9090)
//  2. An optional config.yaml (searched in ./ and ./configs/)
//  3. The defaults declared in the struct tags
//
// Binaries load a .env file into the environment before calling Load, so the
// same variables can be kept in a local .env during development.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
package config
