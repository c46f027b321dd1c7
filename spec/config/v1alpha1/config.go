package v1alpha1

import (
	"fmt"
	"slices"

	genericv1 "ocm.software/open-component-model/bindings/go/configuration/generic/v1/spec"
	"ocm.software/open-component-model/bindings/go/runtime"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

const (
	// ConfigType defines the type identifier for domain model generator configurations.
	ConfigType = "domainmodel.config.ocm.software"
	Version    = "v1alpha1"

	// DefaultOutputFile is the name of the file generated into every package with domain models.
	DefaultOutputFile = scan.GeneratedFilePrefix + "domain_model.go"
)

var Scheme = runtime.NewScheme()

func init() {
	Scheme.MustRegisterWithAlias(&Config{},
		runtime.NewVersionedType(ConfigType, Version),
		runtime.NewUnversionedType(ConfigType),
	)
}

// Config configures the domain model generator.
//
// It is usually embedded in a central OCM configuration:
//
//	type: generic.config.ocm.software/v1
//	configurations:
//	- type: domainmodel.config.ocm.software/v1alpha1
//	  externalSafeTypes:
//	  - time.Time
type Config struct {
	Type runtime.Type `json:"type"`

	// Marker is the comment marker that selects type declarations for generation.
	// Defaults to "+domain:model=true".
	Marker string `json:"marker,omitempty"`

	// OutputFile is the name of the generated file in each package.
	// Defaults to "zz_generated.domain_model.go".
	OutputFile string `json:"outputFile,omitempty"`

	// DomainImport is the import path of the package defining the domain capabilities.
	DomainImport string `json:"domainImport,omitempty"`

	// DomainPackage is the qualifier under which DomainImport is imported.
	DomainPackage string `json:"domainPackage,omitempty"`

	// ExternalSafeTypes lists field types of foreign packages, as written in source,
	// that are treated as domain safe, e.g. "time.Time".
	ExternalSafeTypes []string `json:"externalSafeTypes,omitempty"`

	// Concurrency limits the number of packages generated in parallel.
	// Zero or less means no limit.
	Concurrency int `json:"concurrency,omitempty"`
}

func (c *Config) GetType() runtime.Type {
	return c.Type
}

func (c *Config) SetType(typ runtime.Type) {
	c.Type = typ
}

func (c *Config) DeepCopyTyped() runtime.Typed {
	return c.DeepCopy()
}

func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.ExternalSafeTypes = slices.Clone(c.ExternalSafeTypes)
	return &out
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Type:          runtime.NewVersionedType(ConfigType, Version),
		Marker:        scan.DefaultMarker,
		OutputFile:    DefaultOutputFile,
		DomainImport:  transform.DefaultDomainImport,
		DomainPackage: transform.DefaultDomainPackage,
	}
}

// TransformOptions converts the configuration into options of the transformer.
func (c *Config) TransformOptions() []transform.Option {
	return []transform.Option{
		transform.WithDomainImport(c.DomainImport),
		transform.WithDomainPackage(c.DomainPackage),
		transform.WithExternalSafeTypes(c.ExternalSafeTypes...),
	}
}

// LookupConfig creates a generator configuration from a central V1 config.
// Matching entries are merged in order over Default.
func LookupConfig(cfg *genericv1.Config) (*Config, error) {
	if cfg == nil {
		return Default(), nil
	}

	filtered, err := genericv1.Filter(cfg, &genericv1.FilterOptions{
		ConfigTypes: []runtime.Type{
			runtime.NewVersionedType(ConfigType, Version),
			runtime.NewUnversionedType(ConfigType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter config: %w", err)
	}

	cfgs := make([]*Config, 0, len(filtered.Configurations)+1)
	cfgs = append(cfgs, Default())
	for _, entry := range filtered.Configurations {
		var config Config
		if err := Scheme.Convert(entry, &config); err != nil {
			return nil, fmt.Errorf("failed to decode domain model generator config: %w", err)
		}
		cfgs = append(cfgs, &config)
	}

	return Merge(cfgs...), nil
}

// Merge merges the provided configs into a single config.
// Later configs override earlier ones field by field, external safe types accumulate.
func Merge(configs ...*Config) *Config {
	if len(configs) == 0 {
		return nil
	}

	merged := &Config{Type: runtime.NewVersionedType(ConfigType, Version)}
	for _, config := range configs {
		if config.Marker != "" {
			merged.Marker = config.Marker
		}
		if config.OutputFile != "" {
			merged.OutputFile = config.OutputFile
		}
		if config.DomainImport != "" {
			merged.DomainImport = config.DomainImport
		}
		if config.DomainPackage != "" {
			merged.DomainPackage = config.DomainPackage
		}
		if config.Concurrency != 0 {
			merged.Concurrency = config.Concurrency
		}
		for _, typ := range config.ExternalSafeTypes {
			if !slices.Contains(merged.ExternalSafeTypes, typ) {
				merged.ExternalSafeTypes = append(merged.ExternalSafeTypes, typ)
			}
		}
	}

	return merged
}

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	return runtime.GenerateJSONSchemaForType(&Config{})
}
