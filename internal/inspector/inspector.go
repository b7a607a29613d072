// Package inspector reads the raw schema facts of one namespace from the
// PostgreSQL catalog and hands them to the type resolution passes.
package inspector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/pgschema/pgintrospect/internal/ignore"
	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/logger"
)

// DefaultConcurrency caps the attribute queries in flight at once.
const DefaultConcurrency = 4

// Querier is the subset of *sql.DB the inspector needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options configures discovery.
type Options struct {
	Schema      string // namespace, "public" when empty
	Concurrency int    // DefaultConcurrency when < 1
	Types       ir.TypeOverrides
	Ignore      *ignore.Config
}

// Inspector builds schemas from catalog queries.
type Inspector struct {
	db   Querier
	opts Options
}

// New creates an inspector.
func New(db Querier, opts Options) *Inspector {
	if opts.Schema == "" {
		opts.Schema = "public"
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Inspector{db: db, opts: opts}
}

// Discover reads the catalog and returns the resolved schema. Catalog errors
// are wrapped; type errors are *ir.UnsupportedTypeError,
// *ir.UnresolvedReferenceError or *ir.CyclicReferenceError.
func (i *Inspector) Discover(ctx context.Context) (*ir.Schema, error) {
	facts, err := i.Facts(ctx)
	if err != nil {
		return nil, err
	}
	s, _, err := ir.Build(*facts, i.opts.Types)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Facts reads the raw catalog facts without resolving them.
func (i *Inspector) Facts(ctx context.Context) (*ir.Facts, error) {
	log := logger.Get()
	target := i.opts.Schema

	if err := i.validateSchemaExists(ctx, target); err != nil {
		return nil, err
	}
	if logger.IsDebug() {
		var version string
		if err := i.db.QueryRowContext(ctx, versionQuery).Scan(&version); err == nil {
			log.Debug("Connected", "version", version)
		}
	}

	facts := &ir.Facts{Schema: target}

	enums, err := i.buildEnums(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to build enums: %w", err)
	}
	facts.Enums = enums

	compositeNames, err := i.listNames(ctx, compositesQuery, target, i.opts.Ignore.ShouldIgnoreType)
	if err != nil {
		return nil, fmt.Errorf("failed to list composite types: %w", err)
	}
	tables, ignored, err := i.listTables(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	// One attribute query per table and per composite type. Every goroutine
	// owns one pre-sized slot, so completion order does not matter.
	facts.Composites = make([]ir.RawComposite, len(compositeNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Concurrency)
	for idx, name := range compositeNames {
		g.Go(func() error {
			attrs, err := i.attributes(gctx, attributesQuery, target, name)
			if err != nil {
				return fmt.Errorf("failed to build attributes of type %s: %w", name, err)
			}
			facts.Composites[idx] = ir.RawComposite{Name: name, Attributes: attrs}
			return nil
		})
	}
	for idx := range tables {
		g.Go(func() error {
			cols, err := i.attributes(gctx, columnsQuery, target, tables[idx].Name)
			if err != nil {
				return fmt.Errorf("failed to build columns of %s: %w", tables[idx].Name, err)
			}
			tables[idx].Columns = cols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	facts.Tables = tables
	facts.RowTypes = ignored

	routines, err := i.buildRoutines(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to build routines: %w", err)
	}
	facts.Routines = routines

	log.Debug("Read catalog facts",
		"schema", target,
		"enums", len(facts.Enums),
		"composites", len(facts.Composites),
		"tables", len(facts.Tables),
		"routines", len(facts.Routines),
	)
	return facts, nil
}

func (i *Inspector) validateSchemaExists(ctx context.Context, schema string) error {
	var exists bool
	if err := i.db.QueryRowContext(ctx, schemaExistsQuery, schema).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schema existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("schema '%s' does not exist", schema)
	}
	return nil
}

func (i *Inspector) buildEnums(ctx context.Context, schema string) ([]ir.RawEnum, error) {
	rows, err := i.db.QueryContext(ctx, enumsQuery, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enums []ir.RawEnum
	for rows.Next() {
		var (
			name   string
			labels []string
			sorts  []float64
		)
		if err := rows.Scan(&name, pq.Array(&labels), pq.Array(&sorts)); err != nil {
			return nil, err
		}
		if len(labels) != len(sorts) {
			return nil, fmt.Errorf("enum %s: %d labels but %d sort orders", name, len(labels), len(sorts))
		}
		if i.opts.Ignore.ShouldIgnoreType(name) {
			continue
		}
		values := make([]ir.EnumValue, len(labels))
		for j := range labels {
			values[j] = ir.EnumValue{Label: labels[j], Sort: sorts[j]}
		}
		enums = append(enums, ir.RawEnum{Name: name, Labels: values})
	}
	return enums, rows.Err()
}

func (i *Inspector) listNames(ctx context.Context, query, schema string, skip func(string) bool) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if skip(name) {
			continue
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// listTables also returns the names of ignored tables, whose row types still
// exist in the catalog.
func (i *Inspector) listTables(ctx context.Context, schema string) ([]ir.RawTable, []string, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery, schema)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		tables  []ir.RawTable
		ignored []string
	)
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, nil, err
		}
		if i.opts.Ignore.ShouldIgnoreTable(name) {
			ignored = append(ignored, name)
			continue
		}
		tables = append(tables, ir.RawTable{Name: name, Kind: ir.TableKind(kind)})
	}
	return tables, ignored, rows.Err()
}

func (i *Inspector) attributes(ctx context.Context, query, schema, owner string) ([]ir.RawAttribute, error) {
	rows, err := i.db.QueryContext(ctx, query, schema, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []ir.RawAttribute
	for rows.Next() {
		var a ir.RawAttribute
		if err := rows.Scan(&a.Name, &a.Position, &a.DataType, &a.UDTName, &a.Nullable); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

func (i *Inspector) buildRoutines(ctx context.Context, schema string) ([]ir.RawRoutine, error) {
	params, err := i.parameters(ctx, schema)
	if err != nil {
		return nil, err
	}

	rows, err := i.db.QueryContext(ctx, routinesQuery, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []ir.RawRoutine
	for rows.Next() {
		var specific, name, dataType, udtName string
		if err := rows.Scan(&specific, &name, &dataType, &udtName); err != nil {
			return nil, err
		}
		if i.opts.Ignore.ShouldIgnoreRoutine(name) {
			continue
		}
		routines = append(routines, ir.RawRoutine{
			Name:       name,
			Parameters: params[specific],
			Returns:    ir.RawAttribute{DataType: dataType, UDTName: udtName, Nullable: true},
		})
	}
	return routines, rows.Err()
}

// parameters returns IN and INOUT parameters keyed by specific routine name.
func (i *Inspector) parameters(ctx context.Context, schema string) (map[string][]ir.RawAttribute, error) {
	rows, err := i.db.QueryContext(ctx, parametersQuery, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := make(map[string][]ir.RawAttribute)
	for rows.Next() {
		var specific string
		a := ir.RawAttribute{Nullable: true}
		if err := rows.Scan(&specific, &a.Name, &a.Position, &a.DataType, &a.UDTName); err != nil {
			return nil, err
		}
		if a.Name == "" {
			a.Name = fmt.Sprintf("arg%d", a.Position)
		}
		params[specific] = append(params[specific], a)
	}
	return params, rows.Err()
}
