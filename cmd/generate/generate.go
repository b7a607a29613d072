package generate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgschema/pgintrospect/cmd/util"
	"github.com/pgschema/pgintrospect/internal/codegen"
)

var (
	connection util.ConnectionFlags
	pkg        string
	file       string
	from       string
)

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit Go types for the schema",
	Long: "Generate Go source with one type per enum, composite type and table. " +
		"The schema is introspected from the database, or read from a document written by 'introspect' with --from.",
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	connection.Register(GenerateCmd)
	GenerateCmd.Flags().StringVar(&pkg, "package", "", "Go package name (default from generate.package)")
	GenerateCmd.Flags().StringVar(&file, "file", "", "Output file path (default from generate.output, then stdout)")
	GenerateCmd.Flags().StringVar(&from, "from", "", "Read the schema from a .json, .yaml or .msgpack document instead of the database")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, _, err := util.LoadConfig()
	if err != nil {
		return err
	}
	connection.Apply(cmd, cfg)
	if cmd.Flags().Changed("package") {
		cfg.Generate.Package = pkg
	}
	if cmd.Flags().Changed("file") {
		cfg.Generate.Output = file
	}

	s, conn, err := util.LoadSchema(context.Background(), cfg, from)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
	}

	src, err := codegen.Generate(s, cfg.Generate.Package)
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	if err := util.WriteOutput(cfg.Generate.Output, src); err != nil {
		return err
	}
	if cfg.Generate.Output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote package %s to %s\n", cfg.Generate.Package, cfg.Generate.Output)
	}
	return nil
}
