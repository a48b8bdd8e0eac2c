// Package config holds the fixed store settings, including defaults, an
// optional JSON overlay and command-line flags.
package config

import (
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds the PostgreSQL endpoint and credentials plus logging settings.
type Config struct {
	DBHost         string
	DBPort         int
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string
	ConnectTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBName = "db"
	c.DBUser = "app"
	c.DBPassword = "app"
	c.DBSSLMode = "disable"
	c.ConnectTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// DSN renders the connection settings as a postgres:// URL. Credentials are
// escaped, so any password is safe to use.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// SlogLevel maps LogLevel to a slog.Level. Unknown names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
