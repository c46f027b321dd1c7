package configuration

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	genericv1 "ocm.software/open-component-model/bindings/go/configuration/generic/v1/spec"
	"ocm.software/open-component-model/bindings/go/runtime"

	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
)

const (
	ConfigFlag            = "config"
	ConfigEnvironmentKey  = "DOMAINGEN_CONFIG"
	DefaultConfigFileName = ".domaingen.yaml"
)

func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigFlag, "", `supply configuration by a given configuration file.
Without this flag the configuration is read from the first of:
1. the path in the DOMAINGEN_CONFIG environment variable
2. $PWD/.domaingen.yaml
The file is either a central OCM configuration (generic.config.ocm.software/v1)
or a single domainmodel.config.ocm.software/v1alpha1 configuration.
Without any configuration file the built-in defaults are used.`)
}

// GetConfigForCommand loads the configuration selected by the config flag or the
// well known locations. It returns nil without error if no configuration file exists.
func GetConfigForCommand(cmd *cobra.Command) (*genericv1.Config, error) {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	if path != "" {
		return GetConfigFromPath(path)
	}
	if path := os.Getenv(ConfigEnvironmentKey); path != "" {
		return GetConfigFromPath(path)
	}
	cfg, err := GetConfigFromPath(DefaultConfigFileName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return cfg, err
}

// GetConfigFromPath reads a configuration file. A bare generator configuration is
// wrapped into a central configuration so that both forms are looked up the same way.
func GetConfigFromPath(path string) (*genericv1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw runtime.Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}

	switch raw.Type.Name {
	case genericv1.ConfigType:
		var instance genericv1.Config
		if err := genericv1.Scheme.Decode(bytes.NewReader(data), &instance); err != nil {
			return nil, fmt.Errorf("failed to decode configuration %s: %w", path, err)
		}
		return &instance, nil
	case v1alpha1.ConfigType:
		return &genericv1.Config{
			Type:           runtime.NewVersionedType(genericv1.ConfigType, genericv1.ConfigTypeV1),
			Configurations: []*runtime.Raw{&raw},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported configuration type %q in %s", raw.Type.String(), path)
	}
}
