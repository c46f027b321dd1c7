package configuration

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
)

// New creates the config command group.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the domaingen configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(newSchemaCommand(), newViewCommand())
	return cmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: fmt.Sprintf("Print the JSON schema of %s/%s", v1alpha1.ConfigType, v1alpha1.Version),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := v1alpha1.Schema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
		DisableAutoGenTag: true,
	}
}

func newViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective generator configuration as YAML",
		Long: `Print the generator configuration after merging all matching entries of the
configuration file over the built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := context.FromContext(cmd.Context()).GeneratorConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
		DisableAutoGenTag: true,
	}
}
