// Package cmd implements the ldadapter command line.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Version is stamped at build time.
var Version = "0.1.0"

// Output formats accepted by --output.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ldadapter",
		Short: "NGSI-LD adapter for NGSI v2 context brokers",
		Long: `ldadapter serves a read-only NGSI-LD API on top of an NGSI v2 context
broker, relays v2 notifications to LD subscribers and can translate
v2 documents offline.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default: ./config.yaml or /etc/ldadapter/config.yaml)")
	root.PersistentFlags().String("log-level", "", "override logging.level")
	root.PersistentFlags().StringP("output", "o", FormatJSON, "output format: json, yaml")

	root.AddCommand(newServeCmd(), newTranslateCmd(), newWatchCmd())
	return root
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// render writes v to w in the requested format. YAML goes through JSON first
// so LD documents keep their wire shape.
func render(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}
