package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gotrepository/internal/flagx"
)

// JsonConfig is the on-disk shape of the configuration file. Zero values
// leave the corresponding setting untouched.
type JsonConfig struct {
	DBHost                string `json:"db_host"`
	DBPort                int    `json:"db_port"`
	DBName                string `json:"db_name"`
	DBUser                string `json:"db_user"`
	DBPassword            string `json:"db_password"`
	DBSSLMode             string `json:"db_sslmode"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds"`
	LogLevel              string `json:"log_level"`
}

// parseJson overlays values from the file given with -c/-config. Without
// the flag nothing is loaded; an unreadable or malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DBHost, c.DBHost)
	setString(&config.DBName, c.DBName)
	setString(&config.DBUser, c.DBUser)
	setString(&config.DBPassword, c.DBPassword)
	setString(&config.DBSSLMode, c.DBSSLMode)
	setString(&config.LogLevel, c.LogLevel)

	if c.DBPort != 0 {
		config.DBPort = c.DBPort
	}
	if c.ConnectTimeoutSeconds != 0 {
		config.ConnectTimeout = time.Duration(c.ConnectTimeoutSeconds) * time.Second
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
