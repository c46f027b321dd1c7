package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/configuration"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/generate"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/list"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/setup"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/verify"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/version"
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/watch"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/flags/log"
)

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domaingen [sub-command]",
		Short: "Generate domain model markers and field assertions for Go types",
		Long: `domaingen generates the boilerplate that makes Go types usable as domain models.

Every type declaration annotated with a "+domain:model=true" comment receives
the DomainSafe and DomainModel marker methods. Structs and defined types also
receive a never-called function asserting at compile time that each field type
is itself domain safe, a configured external type or a primitive. Sealed
interfaces act as sums: their variants receive the markers and their fields are
checked in variant order. Interfaces with type terms (unions) are rejected.

Typical use is a go:generate directive at the module root:

  //go:generate go run ocm.software/open-component-model/bindings/go/domainmodel/domaingen generate .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setup.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(generate.New())
	cmd.AddCommand(verify.New())
	cmd.AddCommand(list.New())
	cmd.AddCommand(watch.New())
	cmd.AddCommand(configuration.New())
	cmd.AddCommand(version.New())
	return cmd
}
