// Package config provides configuration structures and utilities for wordlist3r.
// It defines the extraction filters, fetch limits and request customization,
// and loads optional overrides from a YAML config file.
package config
