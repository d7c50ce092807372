package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps persistent flags to the configuration keys they override
var flagKeys = map[string]string{
	"config-dir": "CONFIG_DIR",
	"port":       "SERVER_PORT",
	"log-level":  "LOG_LEVEL",
	"timezone":   "TIMEZONE",
	"catalog":    "CATALOG_FILE",
	"database":   "DATABASE_FILE",
	"tracing":    "TRACING_ENABLED",
}

// bindFlags registers the persistent flags and binds them into viper so
// they take precedence over the environment and .env file
func bindFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.String("config-dir", "", "directory for the database and catalog (env: CONFIG_DIR)")
	fs.StringP("port", "p", "8080", "port to listen on (env: SERVER_PORT)")
	fs.String("log-level", "info", "log level (env: LOG_LEVEL)")
	fs.String("timezone", "UTC", "time zone that decides when a new day starts (env: TIMEZONE)")
	fs.String("catalog", "", "path to the title catalog (env: CATALOG_FILE)")
	fs.String("database", "", "path to the session database (env: DATABASE_FILE)")
	fs.Bool("tracing", false, "log provider tracing spans (env: TRACING_ENABLED)")

	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}
