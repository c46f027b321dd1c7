package verify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/generate"
	generator "ocm.software/open-component-model/bindings/go/domainmodel/generate"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [root]",
		Short: "Check that generated domain model code is up to date",
		Long: `Check that every generated file below root (default: the current folder) matches
what "domaingen generate" would write, without changing any file.

For every stale file a line diff from the file on disk to the expected content
is printed to stderr. The command fails if any file is out of date.`,
		Example: `  # fail a CI build when generated code is stale
  domaingen verify .`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              VerifyDomainModels,
		DisableAutoGenTag: true,
	}
}

func VerifyDomainModels(cmd *cobra.Command, args []string) error {
	cfg := context.FromContext(cmd.Context()).GeneratorConfig()
	err := generator.New(cfg, slog.Default()).Verify(cmd.Context(), generate.Root(args))
	if err == nil {
		return nil
	}

	var stale int
	for _, err := range unjoin(err) {
		var outOfDate *generator.OutOfDateError
		if errors.As(err, &outOfDate) {
			stale++
			fmt.Fprintf(cmd.ErrOrStderr(), "--- %s\n%s", outOfDate.Path, outOfDate.Diff)
			continue
		}
		slog.ErrorContext(cmd.Context(), "verification failed", "error", err)
	}
	if stale > 0 {
		return fmt.Errorf("%d generated file(s) are out of date, run domaingen generate: %w", stale, generator.ErrOutOfDate)
	}
	return fmt.Errorf("verifying domain models failed: %w", err)
}

// unjoin splits an error created by errors.Join into its parts.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
