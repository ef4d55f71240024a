package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/voicedesk/internal/flagx"
	"github.com/dmitrijs2005/voicedesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Addr      *string         `json:"addr"`
	SecretKey *string         `json:"secret_key"`
	TokenTTL  *timex.Duration `json:"token_ttl"`
	GuestTTL  *timex.Duration `json:"guest_ttl"`
	Admin     *string         `json:"admin"`
	LogLevel  *string         `json:"log_level"`
}

func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != nil {
		cfg.Addr = *jc.Addr
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.GuestTTL != nil {
		cfg.GuestTTL = jc.GuestTTL.Duration
	}
	if jc.Admin != nil {
		cfg.Admin = *jc.Admin
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
