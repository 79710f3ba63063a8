// Package config handles loading downlink's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/downlink/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - API endpoint: 127.0.0.1:7788
//   - Frame rate: 60 (clamped to 1..240)
//   - Log file: ~/.local/share/downlink/downlink.log
//   - Log level: info
//
// # TOML Format
//
//	api_bind = "127.0.0.1:7788"
//	fps = 60
//	log_file = "~/.local/share/downlink/downlink.log"
//	log_level = "debug"
//
// Paths starting with ~ are expanded to the user's home directory and made
// absolute. A file that exists but fails to parse is an error; a missing
// file is not.
package config
