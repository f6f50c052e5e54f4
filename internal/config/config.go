package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	SMTPAddr  string `mapstructure:"smtp_addr" yaml:"smtp_addr"`
	SMTPFrom  string `mapstructure:"smtp_from" yaml:"smtp_from"`
	ResetURL  string `mapstructure:"reset_url" yaml:"reset_url"`

	HistoryLimit  int `mapstructure:"history_limit" yaml:"history_limit"`
	AuthRateLimit int `mapstructure:"auth_rate_limit" yaml:"auth_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "parley.db",
		LogLevel:          "info",
		JWTSecret:         "change-me",
		JWTIssuer:         "parley",
		JWTAudience:       "parley",
		JWTTTL:            24 * time.Hour,
		ResetURL:          "http://localhost:3000/reset-password",
		HistoryLimit:      100,
		AuthRateLimit:     30,
	}
}
