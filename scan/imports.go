package scan

import (
	"go/ast"
	"path"
	"regexp"
	"strconv"
	"strings"

	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

var (
	majorVersion  = regexp.MustCompile(`^v[0-9]+$`)
	gopkgInSuffix = regexp.MustCompile(`\.v[0-9]+$`)
)

// ImportName guesses the package name of an import path without loading the package.
// It follows the common conventions: a trailing major version element is skipped,
// gopkg.in style ".vN" suffixes and "go-" prefixes are dropped, and dashes become underscores.
func ImportName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if majorVersion.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	name = gopkgInSuffix.ReplaceAllString(name, "")
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

// fileImports returns the named imports of file. Blank and dot imports cannot be referenced by a qualifier and are skipped.
func fileImports(file *ast.File) []transform.Import {
	imports := make([]transform.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ImportName(importPath)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			name = spec.Name.Name
		}
		imports = append(imports, transform.Import{Name: name, Path: importPath})
	}
	return imports
}

// IsDefaultName reports whether an import of importPath under name needs no explicit alias.
func IsDefaultName(name, importPath string) bool {
	return name == path.Base(importPath)
}
