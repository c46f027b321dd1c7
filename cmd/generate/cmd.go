package generate

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	generator "ocm.software/open-component-model/bindings/go/domainmodel/generate"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
)

const FlagConcurrency = "concurrency"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [root]",
		Short: "Generate domain model code for all packages below a folder",
		Long: `Generate domain model code for all packages below root (default: the current folder).

Every package containing type declarations marked with the configured marker
(default "+domain:model=true") receives a generated file (default
zz_generated.domain_model.go) with the marker methods and the field assertions
of its marked declarations. Generated files of packages without marked
declarations are removed. Folders named testdata or vendor and folders starting
with "." or "_" are skipped.`,
		Example: `  # generate all packages of the current module
  domaingen generate

  # generate a single tree with at most 4 packages in parallel
  domaingen generate ./api --concurrency 4`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              GenerateDomainModels,
		DisableAutoGenTag: true,
	}
	cmd.Flags().Int(FlagConcurrency, 0, "number of packages generated in parallel, 0 uses the configured value")
	return cmd
}

func GenerateDomainModels(cmd *cobra.Command, args []string) error {
	cfg := context.FromContext(cmd.Context()).GeneratorConfig().DeepCopy()
	if cmd.Flags().Changed(FlagConcurrency) {
		concurrency, err := cmd.Flags().GetInt(FlagConcurrency)
		if err != nil {
			return fmt.Errorf("getting concurrency flag failed: %w", err)
		}
		cfg.Concurrency = concurrency
	}

	root := Root(args)
	results, err := generator.New(cfg, slog.Default()).Run(cmd.Context(), root)

	counts := map[generator.Status]int{}
	for _, result := range results {
		counts[result.Status]++
	}
	slog.InfoContext(cmd.Context(), "generation finished", "root", root,
		"written", counts[generator.StatusWritten],
		"unchanged", counts[generator.StatusUnchanged],
		"removed", counts[generator.StatusRemoved],
		"skipped", counts[generator.StatusSkipped],
		"failed", counts[generator.StatusFailed],
	)
	if err != nil {
		return fmt.Errorf("generating domain models failed: %w", err)
	}
	return nil
}

// Root returns the root folder argument, defaulting to the current folder.
func Root(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
