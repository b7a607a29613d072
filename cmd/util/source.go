package util

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/pgschema/pgintrospect/internal/config"
	"github.com/pgschema/pgintrospect/internal/ignore"
	"github.com/pgschema/pgintrospect/internal/inspector"
	"github.com/pgschema/pgintrospect/internal/interchange"
	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/logger"
)

// Discover connects with cfg and introspects cfg.Schema. The caller owns the
// returned connection.
func Discover(ctx context.Context, cfg *config.Config) (*ir.Schema, *sql.DB, error) {
	ignoreConfig, err := ignore.Load()
	if err != nil {
		return nil, nil, err
	}

	conn, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	s, err := inspector.New(conn, InspectorOptions(cfg, ignoreConfig)).Discover(ctx)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to introspect schema %s: %w", cfg.Schema, err)
	}
	return s, conn, nil
}

// InspectorOptions maps configuration onto discovery options.
func InspectorOptions(cfg *config.Config, ignoreConfig *ignore.Config) inspector.Options {
	return inspector.Options{
		Schema:      cfg.Schema,
		Concurrency: cfg.Concurrency,
		Types: ir.TypeOverrides{
			Numbers: cfg.Types.Numbers,
			Strings: cfg.Types.Strings,
		},
		Ignore: ignoreConfig,
	}
}

// ReadSchemaFile decodes an interchange document, inferring the format from
// the file extension.
func ReadSchemaFile(path string) (*ir.Schema, error) {
	format, ok := interchange.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("cannot infer schema format from %s (use .json, .yaml or .msgpack)", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := interchange.Decode(data, string(format))
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("Loaded schema document", "path", path, "format", format, "tables", len(s.Tables))
	return s, nil
}

// LoadSchema reads the schema from path when set, otherwise discovers it. The
// returned connection is nil when the schema came from a file.
func LoadSchema(ctx context.Context, cfg *config.Config, path string) (*ir.Schema, *sql.DB, error) {
	if path != "" {
		s, err := ReadSchemaFile(path)
		return s, nil, err
	}
	return Discover(ctx, cfg)
}

// WriteOutput writes data to path, or to stdout when path is empty.
func WriteOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
