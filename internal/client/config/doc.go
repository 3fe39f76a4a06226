// Package config loads runtime configuration for the gatepass CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see Defaults).
//  2. Optional config file (yaml, json or toml) given with --config.
//  3. A .env file in the working directory, loaded into the environment.
//  4. Environment variables prefixed with GATEPASS_, e.g. GATEPASS_SERVER_URL.
//  5. Command-line flags registered with RegisterFlags.
//
// Supported flags
//
//	--server string          base URL of the inventory API
//	--timeout duration       per-request timeout
//	--session string         session persistence: ephemeral or durable
//	--db string              path of the local session database
//	--key string             path of the session sealing key
//	--download-dir string    where search exports are saved
//	--log-level string       debug, info, warn or error
//	--log-format string      text or json
//
// Durations accept Go syntax ("90s", "24h").
package config
