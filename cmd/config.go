package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/pgschema/pgintrospect/cmd/util"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := util.LoadConfig()
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		w := cmd.OutOrStdout()
		if path != "" {
			fmt.Fprintf(w, "# loaded from %s\n", path)
		} else {
			fmt.Fprintln(w, "# no config file found, showing defaults and environment")
		}
		_, err = w.Write(out)
		return err
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}
