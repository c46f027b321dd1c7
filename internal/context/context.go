// Package context carries the configuration of a domaingen invocation through
// the context.Context of its cobra commands.
package context

import (
	"context"
	"sync"

	genericv1 "ocm.software/open-component-model/bindings/go/configuration/generic/v1/spec"

	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
)

type ctxKey string

const key ctxKey = "ocm.software/open-component-model/bindings/go/domainmodel/internal/context"

// Context holds the values set up once by the root command and read by all sub-commands.
type Context struct {
	mu sync.RWMutex

	// configuration is the central OCM configuration the generator config was looked up from.
	// It is nil when no configuration file was found.
	configuration *genericv1.Config

	// generatorConfig is the effective generator configuration.
	generatorConfig *v1alpha1.Config
}

// WithConfiguration stores the central configuration.
func WithConfiguration(ctx context.Context, cfg *genericv1.Config) context.Context {
	ctx, dctx := retrieveOrCreate(ctx)
	dctx.mu.Lock()
	defer dctx.mu.Unlock()
	dctx.configuration = cfg
	return ctx
}

// WithGeneratorConfig stores the effective generator configuration.
func WithGeneratorConfig(ctx context.Context, cfg *v1alpha1.Config) context.Context {
	ctx, dctx := retrieveOrCreate(ctx)
	dctx.mu.Lock()
	defer dctx.mu.Unlock()
	dctx.generatorConfig = cfg
	return ctx
}

func (ctx *Context) Configuration() *genericv1.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

// GeneratorConfig returns the generator configuration, or v1alpha1.Default if none was set.
func (ctx *Context) GeneratorConfig() *v1alpha1.Config {
	if ctx == nil {
		return v1alpha1.Default()
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	if ctx.generatorConfig == nil {
		return v1alpha1.Default()
	}
	return ctx.generatorConfig
}

// FromContext returns the Context stored in ctx, or nil.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

func retrieveOrCreate(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	dctx := FromContext(ctx)
	if dctx == nil {
		dctx = &Context{}
		ctx = context.WithValue(ctx, key, dctx)
	}
	return ctx, dctx
}
