// Package pgintrospect provides a programmatic API for PostgreSQL schema
// introspection. It resolves the tables, composite types, enums and routines
// of one schema and builds typed, schema-checked queries against them.
package pgintrospect

import (
	"context"
	"database/sql"

	"github.com/pgschema/pgintrospect/cmd/util"
	"github.com/pgschema/pgintrospect/internal/client"
	"github.com/pgschema/pgintrospect/internal/codegen"
	"github.com/pgschema/pgintrospect/internal/config"
	"github.com/pgschema/pgintrospect/internal/ignore"
	"github.com/pgschema/pgintrospect/internal/inspector"
	"github.com/pgschema/pgintrospect/internal/interchange"
	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/transport/rest"
	"github.com/pgschema/pgintrospect/internal/transport/sqlexec"
)

// Re-export the types callers handle directly.
type (
	Schema       = ir.Schema
	Client       = client.Client
	Transport    = client.Transport
	Row          = query.Row
	IgnoreConfig = ignore.Config
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	URL      string // Full connection URL; the discrete fields are ignored when set
	Host     string // Database server host (default: "localhost")
	Port     int    // Database server port (default: 5432)
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	SSLMode  string // sslmode (default: "prefer")
	Schema   string // Target schema name (default: "public")
}

// Options configures discovery.
type Options struct {
	Concurrency int           // Parallel catalog queries (default: 4)
	Numbers     []string      // Extra type names to treat as numbers
	Strings     []string      // Extra type names to treat as strings
	Ignore      *IgnoreConfig // Objects to leave out
}

// Discover connects to the database and returns its resolved schema.
func Discover(ctx context.Context, db DatabaseConfig, opts Options) (*Schema, error) {
	cfg := db.config(opts)
	conn, err := util.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return inspector.New(conn, util.InspectorOptions(cfg, opts.Ignore)).Discover(ctx)
}

// DiscoverWithDB introspects schema over an existing connection.
func DiscoverWithDB(ctx context.Context, db *sql.DB, schema string, opts Options) (*Schema, error) {
	return inspector.New(db, inspector.Options{
		Schema:      schema,
		Concurrency: opts.Concurrency,
		Types:       ir.TypeOverrides{Numbers: opts.Numbers, Strings: opts.Strings},
		Ignore:      opts.Ignore,
	}).Discover(ctx)
}

// NewSQLClient returns a client executing parameterized SQL over db.
func NewSQLClient(db *sql.DB, schema *Schema) *Client {
	return client.New(schema, sqlexec.New(db, schema.Name))
}

// NewRESTClient returns a client talking to a PostgREST compatible endpoint.
// apiKey is optional.
func NewRESTClient(baseURL string, schema *Schema, apiKey string) (*Client, error) {
	t, err := rest.New(baseURL, rest.WithAPIKey(apiKey), rest.WithSchema(schema.Name))
	if err != nil {
		return nil, err
	}
	return client.New(schema, t), nil
}

// NewClient returns a client over a caller supplied transport.
func NewClient(schema *Schema, t Transport) *Client {
	return client.New(schema, t)
}

// EncodeSchema serializes a schema as json, yaml or msgpack.
func EncodeSchema(s *Schema, format string) ([]byte, error) {
	return interchange.Encode(s, format)
}

// DecodeSchema reads a schema written by EncodeSchema.
func DecodeSchema(data []byte, format string) (*Schema, error) {
	return interchange.Decode(data, format)
}

// GenerateGo emits Go source declaring one type per enum, composite type and
// table of s.
func GenerateGo(s *Schema, pkg string) ([]byte, error) {
	return codegen.Generate(s, pkg)
}

func (db DatabaseConfig) config(opts Options) *config.Config {
	cfg := &config.Config{
		Schema:      db.Schema,
		Concurrency: opts.Concurrency,
		Database: config.DatabaseConfig{
			URL:      db.URL,
			Host:     db.Host,
			Port:     db.Port,
			Name:     db.Database,
			User:     db.User,
			Password: db.Password,
			SSLMode:  db.SSLMode,
		},
		Types: config.TypesConfig{Numbers: opts.Numbers, Strings: opts.Strings},
	}
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = inspector.DefaultConcurrency
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "prefer"
	}
	return cfg
}
