// Package config loads, validates, and defaults the TOML configuration for
// autotag. Provider credentials may live in the config file, the process
// environment, or a .env file; the config file wins.
package config
