package util

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pgschema/pgintrospect/internal/config"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConnectionFlags are the database flags shared by every command that
// talks to PostgreSQL.
type ConnectionFlags struct {
	Host     string
	Port     int
	DB       string
	User     string
	Password string
	Schema   string
}

// Register adds the connection flags to cmd.
func (f *ConnectionFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Host, "host", "", "Database server host (env: PGHOST)")
	cmd.Flags().IntVar(&f.Port, "port", 0, "Database server port (env: PGPORT)")
	cmd.Flags().StringVar(&f.DB, "db", "", "Database name (env: PGDATABASE)")
	cmd.Flags().StringVar(&f.User, "user", "", "Database user name (env: PGUSER)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Database password (env: PGPASSWORD)")
	cmd.Flags().StringVar(&f.Schema, "schema", "", "Schema to introspect (default from config, then 'public')")
}

// Apply merges the flags into cfg. A flag set on the command line wins, then
// the matching PG* environment variable, then whatever cfg already holds.
func (f *ConnectionFlags) Apply(cmd *cobra.Command, cfg *config.Config) {
	db := &cfg.Database
	applyString(cmd, "host", f.Host, "PGHOST", &db.Host)
	applyString(cmd, "db", f.DB, "PGDATABASE", &db.Name)
	applyString(cmd, "user", f.User, "PGUSER", &db.User)
	applyString(cmd, "password", f.Password, "PGPASSWORD", &db.Password)

	if cmd.Flags().Changed("port") {
		db.Port = f.Port
	} else if port := GetEnvIntWithDefault("PGPORT", 0); port != 0 {
		db.Port = port
	}

	if cmd.Flags().Changed("schema") {
		cfg.Schema = f.Schema
	}
}

func applyString(cmd *cobra.Command, flag, value, envVar string, target *string) {
	if cmd.Flags().Changed(flag) {
		*target = value
		return
	}
	if env := GetEnvWithDefault(envVar, ""); env != "" {
		*target = env
	}
}
