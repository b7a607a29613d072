package util

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgschema/pgintrospect/internal/config"
	"github.com/pgschema/pgintrospect/internal/logger"
)

// ApplicationName is reported to the server unless the DSN sets one.
const ApplicationName = "pgintrospect"

// Connect opens and pings a database connection for cfg.Database.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	log := logger.Get()

	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	dsn = withApplicationName(dsn)

	log.Debug("Attempting database connection",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
		"user", cfg.Database.User,
		"sslmode", cfg.Database.SSLMode,
		"url_set", cfg.Database.URL != "",
	)

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Database connection established successfully")
	return conn, nil
}

// withApplicationName adds application_name to URL style DSNs that lack it.
func withApplicationName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return dsn
	}
	q := u.Query()
	if q.Get("application_name") != "" {
		return dsn
	}
	q.Set("application_name", ApplicationName)
	u.RawQuery = q.Encode()
	return u.String()
}
