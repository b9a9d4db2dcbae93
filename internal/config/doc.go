// Package config loads the daylog TOML configuration shared by the daylogd
// server and the daylog viewer.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use $DAYLOG_CONFIG when set
//  3. Otherwise, use ~/.config/daylog/config.toml
//  4. If the config file doesn't exist, fall back to defaults
//
// DAYLOG_LOG_DIR, when set, overrides log_dir after the file is parsed.
//
// # TOML Format
//
//	api_bind = "127.0.0.1:7488"
//	log_dir = "~/.local/share/daylog/logs"
//	retention = "7d"          # Go duration or whole days
//	sweep_interval = "24h"
//	max_read_lines = 10000    # hard ceiling for one read
//	default_read_lines = 500
//	max_line_bytes = 1048576  # longer records are cut; capped at 16 MiB
//	log_level = "info"        # diagnostics on stderr
//	console_echo = true       # mirror every record to stderr
//	api_token_hash = ""       # bcrypt hash; empty disables auth (server)
//	api_token = ""            # bearer token the viewer sends
//
// Every field is optional. Missing config files are NOT an error.
package config
