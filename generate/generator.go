// Package generate drives the domain model transformation over whole source trees.
//
// For every package below a root folder that contains declarations marked as
// domain models, the Generator writes a single generated file (by default
// zz_generated.domain_model.go) with the marker methods and field assertions of
// all marked declarations. The file carries a build constraint and a
// "DO NOT EDIT" header and is safe to regenerate at any time.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
)

// Status is the outcome of generating a single package.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusRemoved   Status = "removed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result describes the outcome of generating a single package.
type Result struct {
	Dir     string
	Package string
	Types   []string
	Status  Status
	// Err is set for packages that could not be scanned and for declarations that
	// could not be transformed. The latter still produce output for the other declarations.
	Err error
}

// Generator generates domain model code for packages.
type Generator struct {
	config *v1alpha1.Config
	logger *slog.Logger
}

// New creates a Generator. A nil config uses v1alpha1.Default, a nil logger uses slog.Default.
func New(config *v1alpha1.Config, logger *slog.Logger) *Generator {
	if config == nil {
		config = v1alpha1.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{config: config, logger: logger}
}

// Run generates all packages below root.
// Packages are processed in parallel, limited by the configured concurrency.
func (g *Generator) Run(ctx context.Context, root string) ([]Result, error) {
	packages, err := scan.FindPackages(root)
	if err != nil {
		return nil, fmt.Errorf("failed to find go packages: %w", err)
	}

	results := make([]Result, len(packages))
	eg, egctx := errgroup.WithContext(ctx)
	if g.config.Concurrency > 0 {
		eg.SetLimit(g.config.Concurrency)
	}
	for i, dir := range packages {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = g.Package(dir)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return results, errors.Join(errs...)
}

// Package generates a single package folder.
func (g *Generator) Package(dir string) Result {
	result := Result{Dir: dir}

	pkg, err := g.scan(dir)
	if err != nil {
		g.logger.Error("error scanning", "dir", dir, "error", err)
		result.Status, result.Err = StatusFailed, err
		return result
	}
	result.Package = pkg.Name
	for _, decl := range pkg.Declarations {
		result.Types = append(result.Types, decl.Name)
	}

	content, renderErr := Render(g.config, pkg)
	result.Err = renderErr
	if renderErr != nil {
		g.logger.Error("error generating", "pkg", pkg.Name, "dir", dir, "error", renderErr)
	}

	outputPath := filepath.Join(dir, g.config.OutputFile)
	existing, err := os.ReadFile(outputPath)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		result.Status, result.Err = StatusFailed, errors.Join(result.Err, err)
		return result
	}

	switch {
	case content == nil && exists:
		if err := os.Remove(outputPath); err != nil {
			result.Status, result.Err = StatusFailed, errors.Join(result.Err, err)
			return result
		}
		g.logger.Info("removed stale generated file", "pkg", pkg.Name, "file", outputPath)
		result.Status = StatusRemoved
	case content == nil:
		result.Status = StatusSkipped
	case exists && bytes.Equal(existing, content):
		g.logger.Debug("generated file is up to date", "pkg", pkg.Name, "file", outputPath)
		result.Status = StatusUnchanged
	default:
		g.logger.Info("Generating", "pkg", pkg.Name, "dir", dir, "types", result.Types)
		if err := os.WriteFile(outputPath, content, 0o644); err != nil {
			result.Status, result.Err = StatusFailed, errors.Join(result.Err, err)
			return result
		}
		result.Status = StatusWritten
	}
	return result
}

func (g *Generator) scan(dir string) (*scan.Package, error) {
	pkg, err := scan.ScanPackage(dir, g.config.Marker)
	if err != nil {
		return nil, err
	}
	importPath, err := scan.ImportPath(dir)
	if err != nil {
		g.logger.Debug("could not determine import path", "dir", dir, "error", err)
	}
	pkg.ImportPath = importPath
	return pkg, nil
}
