// Package config provides configuration loading, merging, and validation
// facilities for the PromptShield client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Config file (JSON or TOML, chosen by extension)
//  3. Environment variables, optionally seeded from a .env file
//  4. Command-line flags
//
// The main entry point is [GetClientConfig].
package config
