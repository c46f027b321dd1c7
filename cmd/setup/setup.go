// Package setup prepares every domaingen command before it runs.
package setup

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/cmd/configuration"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/context"
	"ocm.software/open-component-model/bindings/go/domainmodel/internal/flags/log"
	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
)

// PreRunE configures the default logger from the logging flags and stores the
// configuration in the command context.
func PreRunE(cmd *cobra.Command, _ []string) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)

	if err := Config(cmd); err != nil {
		return err
	}

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}
	return nil
}

// Config loads the configuration file and stores the central and the effective
// generator configuration in the command context.
func Config(cmd *cobra.Command) error {
	cfg, err := configuration.GetConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if cfg == nil {
		slog.DebugContext(cmd.Context(), "no configuration file found, using defaults")
	}

	generatorConfig, err := v1alpha1.LookupConfig(cfg)
	if err != nil {
		return fmt.Errorf("could not get generator configuration: %w", err)
	}

	ctx := context.WithConfiguration(cmd.Context(), cfg)
	ctx = context.WithGeneratorConfig(ctx, generatorConfig)
	cmd.SetContext(ctx)
	return nil
}
