package list

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/generate"
	generator "ocm.software/open-component-model/bindings/go/domainmodel/generate"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/flags/enum"
)

const (
	FlagOutput          = "output"
	FlagOutputShorthand = "o"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List the domain model declarations below a folder",
		Long: `List every type declaration marked as domain model in the packages below root
(default: the current folder) together with its shape, the number of field types
checked by its assertions and, for sums, the number of variants.`,
		Example:           `  domaingen list ./model -o yaml`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              ListDomainModels,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), FlagOutput, FlagOutputShorthand, []string{OutputTable, OutputJSON, OutputYAML}, "output format")
	return cmd
}

func ListDomainModels(cmd *cobra.Command, args []string) error {
	output, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}

	cfg := context.FromContext(cmd.Context()).GeneratorConfig()
	entries, err := generator.New(cfg, slog.Default()).List(cmd.Context(), generate.Root(args))
	if err != nil {
		return fmt.Errorf("listing domain models failed: %w", err)
	}
	if entries == nil {
		entries = []generator.Entry{}
	}

	return encode(cmd.OutOrStdout(), output, entries)
}

func encode(w io.Writer, output string, entries []generator.Entry) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case OutputYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case OutputTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"PACKAGE", "NAME", "SHAPE", "FIELDS", "VARIANTS", "POSITION"})
		for _, entry := range entries {
			variants := "-"
			if entry.Variants > 0 {
				variants = strconv.Itoa(entry.Variants)
			}
			t.AppendRow(table.Row{entry.Package, entry.Name, entry.Shape.String(), entry.Fields, variants, entry.Position})
		}
		t.Render()
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
