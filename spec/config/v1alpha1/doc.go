// Package v1alpha1 contains the typed configuration of the domain model generator.
// The configuration is registered in Scheme and can be looked up from a central
// OCM configuration with LookupConfig.
package v1alpha1
