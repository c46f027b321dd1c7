package generate

import (
	"context"
	"fmt"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

// List returns the marked declarations of all packages below root.
func (g *Generator) List(ctx context.Context, root string) ([]Entry, error) {
	packages, err := scan.FindPackages(root)
	if err != nil {
		return nil, fmt.Errorf("failed to find go packages: %w", err)
	}

	var entries []Entry
	for _, dir := range packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := g.scan(dir)
		if err != nil {
			return nil, err
		}
		for _, decl := range pkg.Declarations {
			entries = append(entries, Entry{
				Package:  pkg.Name,
				Dir:      dir,
				Name:     decl.Name,
				Shape:    decl.Shape,
				Fields:   len(transform.FieldTypes(decl)),
				Variants: len(decl.Variants),
				Position: decl.Pos.String(),
			})
		}
	}
	return entries, nil
}

// Entry is a marked declaration found by List.
type Entry struct {
	Package  string          `json:"package"`
	Dir      string          `json:"dir"`
	Name     string          `json:"name"`
	Shape    transform.Shape `json:"shape"`
	Fields   int             `json:"fields"`
	Variants int             `json:"variants,omitempty"`
	Position string          `json:"position"`
}
