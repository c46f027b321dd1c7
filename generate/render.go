package generate

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"strings"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
	"ocm.software/open-component-model/bindings/go/domainmodel/spec/config/v1alpha1"
	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

// ErrImportConflict is returned for declarations whose field types need a package
// qualifier that another file of the same package binds to a different import path.
var ErrImportConflict = errors.New("conflicting imports")

const header = `//go:build !ignore_autogenerated
// +build !ignore_autogenerated

// Code generated by domaingen. DO NOT EDIT.
`

// Render produces the generated file for pkg.
//
// It returns nil content if pkg has no declaration that could be transformed.
// Declarations that cannot be transformed are reported in the returned error,
// the remaining declarations are still rendered, so content and error can both be set.
func Render(cfg *v1alpha1.Config, pkg *scan.Package) ([]byte, error) {
	opts := cfg.TransformOptions()
	if pkg.ImportPath != "" && pkg.ImportPath == cfg.DomainImport {
		opts = append(opts, transform.WithDomainPackage(""))
	}

	var (
		errs    []error
		chunks  []string
		imports = map[string]string{}
		marked  = map[string]bool{}
	)
	for _, decl := range pkg.Declarations {
		emitted, err := transform.Transform(decl, opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := mergeImports(imports, emitted.Imports); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", decl.Pos, decl.Name, err))
			continue
		}
		emitted.Markers = dedupMarkers(emitted.Markers, marked)
		if code := emitted.Generated(); code != "" {
			chunks = append(chunks, code)
		}
	}
	if len(chunks) == 0 {
		return nil, errors.Join(errs...)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "\npackage %s\n\n", pkg.Name)
	writeImports(&buf, imports)
	buf.WriteString(strings.Join(chunks, "\n\n"))
	buf.WriteString("\n")

	content, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Join(append(errs, fmt.Errorf("failed to format generated code for package %s: %w", pkg.Name, err))...)
	}
	return content, errors.Join(errs...)
}

// dedupMarkers drops marker methods for receivers that were already marked in
// the same package, which happens when a type is a variant of several sums or
// is marked itself and also a variant.
func dedupMarkers(markers []transform.Marker, marked map[string]bool) []transform.Marker {
	result := make([]transform.Marker, 0, len(markers))
	for _, m := range markers {
		if m.Receiver != "" {
			if marked[m.Receiver] {
				continue
			}
			marked[m.Receiver] = true
		}
		result = append(result, m)
	}
	return result
}

// mergeImports adds imports to merged unless one of their qualifiers is already
// taken by another path, in which case merged is left unchanged.
func mergeImports(merged map[string]string, imports []transform.Import) error {
	for _, imp := range imports {
		if path, ok := merged[imp.Name]; ok && path != imp.Path {
			return fmt.Errorf("%w: %s refers to %q and %q", ErrImportConflict, imp.Name, path, imp.Path)
		}
	}
	for _, imp := range imports {
		merged[imp.Name] = imp.Path
	}
	return nil
}

func writeImports(buf *bytes.Buffer, imports map[string]string) {
	if len(imports) == 0 {
		return
	}
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(strings.Compare(imports[a], imports[b]), strings.Compare(a, b))
	})

	buf.WriteString("import (\n")
	for _, name := range names {
		path := imports[name]
		if scan.IsDefaultName(name, path) {
			fmt.Fprintf(buf, "\t%q\n", path)
		} else {
			fmt.Fprintf(buf, "\t%s %q\n", name, path)
		}
	}
	buf.WriteString(")\n\n")
}
