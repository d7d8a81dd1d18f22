package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// PollInterval is how often served pages re-fetch the feed.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// ChirpsPerMinute caps chirp creation per user; 0 disables the limit.
	ChirpsPerMinute int `mapstructure:"chirps_per_minute" yaml:"chirps_per_minute"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "chirper.db",
		LogLevel:          "info",
		PollInterval:      5 * time.Second,
		ChirpsPerMinute:   30,
		JWTSecret:         "change-me",
		JWTIssuer:         "chirper",
		JWTAudience:       "chirper",
	}
}
