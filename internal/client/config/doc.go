// Package config loads runtime configuration for the voicedesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL, e.g. http://127.0.0.1:8000/api/v1
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-r float    outbound requests per second, 0 for unlimited
//	-l string   log level
//	-m string   address for the /metrics endpoint
//	-i int      session check interval (seconds), 0 to disable
//
// # JSON schema
//
// The JSON loader uses timex.Duration for durations, so they can be either a
// string like "15s" or integer nanoseconds. Absent keys keep their earlier
// value:
//
//	{
//	  "api_base_url": "https://voices.example.com/api/v1",
//	  "db_path": "/home/me/.voicedesk.db",
//	  "request_timeout": "15s",
//	  "rate_limit": 5,
//	  "log_level": "debug",
//	  "metrics_addr": "127.0.0.1:9100",
//	  "session_check_interval": "1m"
//	}
//
// Invalid files or flag values panic; the CLI cannot start without a usable
// configuration.
package config
