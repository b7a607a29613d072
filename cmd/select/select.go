package selectcmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgschema/pgintrospect/cmd/util"
	"github.com/pgschema/pgintrospect/internal/client"
	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/render"
	"github.com/pgschema/pgintrospect/internal/transport"
	"github.com/pgschema/pgintrospect/internal/transport/rest"
	"github.com/pgschema/pgintrospect/internal/transport/sqlexec"
)

// selectOptions are the query shaping flags.
type selectOptions struct {
	columns   []string
	wheres    []string
	order     []string
	direction string
	limit     int
	offset    int
}

var (
	connection util.ConnectionFlags
	opts       selectOptions
	dryRun     bool
	from       string
	remoteURL  string
	apiKey     string
)

var SelectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Build and run a typed select",
	Long: `Build a select through the schema-checked client. With --dry-run the rendered
SQL is printed and checked by the PostgreSQL parser; otherwise it runs through
the SQL transport, or the HTTP transport when a remote URL is configured, and
the rows are printed as JSON.

--where accepts col=v, col>v, col>=v, col<v, col<=v, "col is null" and
"col is not null", and may be repeated.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	connection.Register(SelectCmd)
	f := SelectCmd.Flags()
	f.StringSliceVar(&opts.columns, "columns", nil, "Columns to return (default: all)")
	f.StringArrayVar(&opts.wheres, "where", nil, "Filter expression, repeatable")
	f.StringSliceVar(&opts.order, "order", nil, "Columns to order by")
	f.StringVar(&opts.direction, "direction", "asc", "Order direction: asc or desc")
	f.IntVar(&opts.limit, "limit", 0, "Maximum rows to return")
	f.IntVar(&opts.offset, "offset", 0, "Rows to skip")
	f.BoolVar(&dryRun, "dry-run", false, "Print the SQL instead of running it")
	f.StringVar(&from, "from", "", "Read the schema from a .json, .yaml or .msgpack document instead of the database")
	f.StringVar(&remoteURL, "remote-url", "", "Send the query to a PostgREST compatible endpoint (default from remote.url)")
	f.StringVar(&apiKey, "api-key", "", "Bearer token for --remote-url (default from remote.api_key)")
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, _, err := util.LoadConfig()
	if err != nil {
		return err
	}
	connection.Apply(cmd, cfg)
	if cmd.Flags().Changed("remote-url") {
		cfg.Remote.URL = remoteURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.Remote.APIKey = apiKey
	}

	ctx := context.Background()
	s, conn, err := util.LoadSchema(ctx, cfg, from)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
	}

	if dryRun {
		sql, err := renderSelect(s, args[0], opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sql)
		return nil
	}

	var t client.Transport
	switch {
	case cfg.Remote.URL != "":
		t, err = rest.New(cfg.Remote.URL, rest.WithAPIKey(cfg.Remote.APIKey), rest.WithSchema(s.Name))
		if err != nil {
			return err
		}
	default:
		if conn == nil {
			if conn, err = util.Connect(ctx, cfg); err != nil {
				return err
			}
			defer conn.Close()
		}
		t = sqlexec.New(conn, s.Name)
	}

	b, err := buildSelect(client.New(s, t), args[0], opts)
	if err != nil {
		return err
	}
	rows, err := b.Fetch(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// renderSelect renders the select with inline literals and checks it parses.
func renderSelect(s *ir.Schema, table string, o selectOptions) (string, error) {
	c := client.New(s, transport.Unimplemented{Name: "dry-run"})
	b, err := buildSelect(c, table, o)
	if err != nil {
		return "", err
	}
	stmt, err := render.New(render.WithSchema(s.Name)).Select(b.Query())
	if err != nil {
		return "", err
	}
	if err := render.Validate(stmt.SQL); err != nil {
		return "", err
	}
	return stmt.SQL, nil
}

func buildSelect(c *client.Client, name string, o selectOptions) (*client.SelectBuilder, error) {
	table, err := c.Table(name)
	if err != nil {
		return nil, err
	}

	b := table.Select(o.columns...)
	irTable := c.Schema().Tables[name]
	for _, expr := range o.wheres {
		cond, err := parseWhere(irTable, expr)
		if err != nil {
			return nil, err
		}
		switch cond := cond.(type) {
		case query.Unary:
			b.WhereIs(cond.Column, cond.Operator)
		case query.Binary:
			b.WhereOp(cond.Column, cond.Operator, cond.Value)
		}
	}
	if len(o.order) > 0 {
		b.OrderBy(o.direction, o.order...)
	}
	if o.limit > 0 {
		b.Limit(o.limit)
	}
	if o.offset > 0 {
		b.Offset(o.offset)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
