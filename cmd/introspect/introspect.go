package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgschema/pgintrospect/cmd/util"
	"github.com/pgschema/pgintrospect/internal/fingerprint"
	"github.com/pgschema/pgintrospect/internal/interchange"
	"github.com/pgschema/pgintrospect/internal/logger"
)

var (
	connection util.ConnectionFlags
	format     string
	file       string
	expect     string
)

var IntrospectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Write the resolved schema document",
	Long: "Introspect one schema and write its resolved description as json, yaml or msgpack. " +
		"The format defaults to output.format from the config, or to the --file extension.",
	Args: cobra.NoArgs,
	RunE: runIntrospect,
}

func init() {
	connection.Register(IntrospectCmd)
	IntrospectCmd.Flags().StringVar(&format, "format", "", "Output format: "+strings.Join(interchange.Formats(), ", "))
	IntrospectCmd.Flags().StringVar(&file, "file", "", "Output file path (default: stdout)")
	IntrospectCmd.Flags().StringVar(&expect, "expect-fingerprint", "", "Fail without writing if the schema fingerprint differs (full hash or 8+ digit prefix)")
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	cfg, _, err := util.LoadConfig()
	if err != nil {
		return err
	}
	connection.Apply(cmd, cfg)

	outFile := cfg.Output.File
	if cmd.Flags().Changed("file") {
		outFile = file
	}
	outFormat := resolveFormat(cmd.Flags().Changed("format"), format, outFile, cfg.Output.Format)
	if _, err := interchange.CodecFor(outFormat); err != nil {
		return err
	}

	ctx := context.Background()
	s, conn, err := util.Discover(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	fp, err := fingerprint.Compute(s)
	if err != nil {
		return err
	}
	if expect != "" {
		if err := fingerprint.Matches(expect, fp); err != nil {
			return err
		}
	}

	data, err := interchange.Encode(s, outFormat)
	if err != nil {
		return err
	}
	if err := util.WriteOutput(outFile, data); err != nil {
		return err
	}

	logger.Get().Debug("Wrote schema document", "format", outFormat, "file", outFile, "bytes", len(data), "fingerprint", fp.Hash)
	if outFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s schema %q to %s\n%s\n", outFormat, s.Name, outFile, fp)
	}
	return nil
}

// resolveFormat picks --format, then the output file extension, then the
// configured default.
func resolveFormat(flagSet bool, flagValue, outFile, configured string) string {
	if flagSet {
		return flagValue
	}
	if f, ok := interchange.FormatForPath(outFile); ok {
		return string(f)
	}
	return configured
}
