package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/voicedesk/internal/flagx"
)

var knownFlags = []string{"-a", "-k", "-t", "-g", "-admin", "-l"}

// parseFlags populates Config fields from command-line flags. The -c/-config
// flag is filtered out first; parseJson owns it.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address to listen on")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing secret (random when empty)")
	tokenTTL := fs.Int("t", int(cfg.TokenTTL.Seconds()), "access token lifetime (in seconds)")
	guestTTL := fs.Int("g", int(cfg.GuestTTL.Seconds()), "guest session lifetime (in seconds)")
	fs.StringVar(&cfg.Admin, "admin", cfg.Admin, "seed an administrator, username:password")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenTTL = time.Duration(*tokenTTL) * time.Second
	cfg.GuestTTL = time.Duration(*guestTTL) * time.Second
}
