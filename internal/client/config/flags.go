package config

import "github.com/spf13/pflag"

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"server":       "server_url",
	"timeout":      "request_timeout",
	"session":      "session_persistence",
	"db":           "database_path",
	"key":          "key_path",
	"download-dir": "download_dir",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

// RegisterFlags adds the configuration flags to fs. Only flags the user
// actually sets override the other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("server", d.ServerURL, "base URL of the inventory API")
	fs.Duration("timeout", d.RequestTimeout, "per-request timeout")
	fs.String("session", d.SessionPersistence, "session persistence: ephemeral or durable")
	fs.String("db", d.DatabasePath, "path of the local session database")
	fs.String("key", d.KeyPath, "path of the session sealing key")
	fs.String("download-dir", d.DownloadDir, "directory for search exports")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "log format: text or json")
}
