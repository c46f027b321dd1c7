package watch

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/generate"
	generator "ocm.software/open-component-model/bindings/go/domainmodel/generate"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Regenerate domain model code whenever sources change",
		Long: `Generate all packages below root (default: the current folder) once and then
regenerate a package whenever one of its Go files changes.
Folders created while watching are picked up automatically.

The command runs until it is interrupted.`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              WatchDomainModels,
		DisableAutoGenTag: true,
	}
}

func WatchDomainModels(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg := context.FromContext(cmd.Context()).GeneratorConfig()
	root := generate.Root(args)
	slog.InfoContext(ctx, "watching for changes", "root", root)
	if err := generator.New(cfg, slog.Default()).Watch(ctx, root); err != nil {
		return fmt.Errorf("watching %s failed: %w", root, err)
	}
	return nil
}
