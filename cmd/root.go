package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgschema/pgintrospect/cmd/generate"
	"github.com/pgschema/pgintrospect/cmd/introspect"
	selectcmd "github.com/pgschema/pgintrospect/cmd/select"
	"github.com/pgschema/pgintrospect/cmd/util"
	"github.com/pgschema/pgintrospect/internal/logger"
	"github.com/pgschema/pgintrospect/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgintrospect",
	Short: "PostgreSQL schema introspection and typed query tool",
	Long: fmt.Sprintf(`pgintrospect reads a PostgreSQL schema, resolves its types and builds
typed queries against it.

Version: %s

Commands:
  introspect  Write the resolved schema as json, yaml or msgpack
  generate    Emit Go types for the schema
  select      Build and run a typed select
  config      Inspect the effective configuration

Use "pgintrospect [command] --help" for more information about a command.`, version.String()),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&util.ConfigPath, "config", "", "Path to pgintrospect.yaml (default: discovered from the working directory)")
	RootCmd.AddCommand(introspect.IntrospectCmd)
	RootCmd.AddCommand(generate.GenerateCmd)
	RootCmd.AddCommand(selectcmd.SelectCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	logger.SetGlobal(logger.New(os.Stderr, Debug), Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
