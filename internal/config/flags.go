package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gotrepository/internal/flagx"
)

// parseFlags overrides Config fields from command-line flags:
//
//	-H string   database host
//	-P int      database port
//	-n string   database name
//	-u string   database user
//	-p string   database password
//	-s string   sslmode
//	-t int      connect timeout, seconds
//	-l string   log level (debug enables SQL tracing)
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-H", "-P", "-n", "-u", "-p", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DBHost, "H", config.DBHost, "database host")
	fs.IntVar(&config.DBPort, "P", config.DBPort, "database port")
	fs.StringVar(&config.DBName, "n", config.DBName, "database name")
	fs.StringVar(&config.DBUser, "u", config.DBUser, "database user")
	fs.StringVar(&config.DBPassword, "p", config.DBPassword, "database password")
	fs.StringVar(&config.DBSSLMode, "s", config.DBSSLMode, "database sslmode")
	timeout := fs.Int("t", int(config.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ConnectTimeout = time.Duration(*timeout) * time.Second
}
