package config

import "flag"

// Flags holds raw command-line values. Empty strings mean the flag was
// not supplied and the env var or default applies.
type Flags struct {
	Env      string
	LogLevel string
	EnvFile  string

	StorageBackend string
	DataPath       string

	ServerName     string
	Host           string
	Port           string
	ReadTimeout    string
	WriteTimeout   string
	IdleTimeout    string
	RateLimitRPS   string
	RateLimitBurst string

	WatcherEnabled string
	InboxPath      string
	SettleDelay    string

	SearchEnabled string
}

func (f Flags) envFileOrDefault() string {
	if f.EnvFile == "" {
		return ".env"
	}
	return f.EnvFile
}

// ParseFlags registers and parses the command-line flags.
func ParseFlags() Flags {
	var f Flags

	flag.StringVar(&f.Env, "env", "", "Environment (development, staging, production)")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.EnvFile, "env-file", ".env", "Path to .env file")

	flag.StringVar(&f.StorageBackend, "storage-backend", "", "Record store backend (badger, sqlite)")
	flag.StringVar(&f.DataPath, "data-path", "", "Base path for data storage")

	flag.StringVar(&f.ServerName, "server-name", "", "Name for the server")
	flag.StringVar(&f.Host, "host", "", "Host interface to bind (default: all)")
	flag.StringVar(&f.Port, "port", "", "Server port (default: 8080)")
	flag.StringVar(&f.ReadTimeout, "read-timeout", "", "HTTP read timeout (default: 15s)")
	flag.StringVar(&f.WriteTimeout, "write-timeout", "", "HTTP write timeout (default: 15s)")
	flag.StringVar(&f.IdleTimeout, "idle-timeout", "", "HTTP idle timeout (default: 60s)")
	flag.StringVar(&f.RateLimitRPS, "rate-limit-rps", "", "Requests per second per client (0 disables)")
	flag.StringVar(&f.RateLimitBurst, "rate-limit-burst", "", "Burst size per client (default: 20)")

	flag.StringVar(&f.WatcherEnabled, "watcher-enabled", "", "Watch the inbox directory for new audio (default: false)")
	flag.StringVar(&f.InboxPath, "inbox-path", "", "Directory watched for new audio files")
	flag.StringVar(&f.SettleDelay, "settle-delay", "", "Quiet period before ingesting a new file (default: 2s)")

	flag.StringVar(&f.SearchEnabled, "search-enabled", "", "Enable transcript full-text search (default: true)")

	flag.Parse()

	return f
}
