package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-r", "-l", "-m", "-i"}

// parseFlags populates Config fields from command-line flags.
//
// Note: os.Args is filtered with flagx.FilterArgs first so that the -c/-config
// flag handled by parseJson does not trip this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "session database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Float64Var(&cfg.RateLimit, "r", cfg.RateLimit, "outbound requests per second, 0 for unlimited")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "address to serve /metrics on")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds), 0 to disable")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
}
