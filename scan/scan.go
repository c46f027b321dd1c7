// Package scan finds Go type declarations marked as domain models and turns
// them into transform.Declaration values.
//
// A declaration is marked when the marker comment (DefaultMarker unless
// configured otherwise) is part of its doc comment:
//
//	// User is a registered user.
//	// +domain:model=true
//	type User struct {
//		ID    UserID
//		Email string
//	}
//
// Sum types are expressed as sealed interfaces. Their variants are the types of
// the same package that implement every unexported method of the interface:
//
//	// +domain:model=true
//	type Status interface {
//		domain.Model
//		isStatus()
//	}
//
//	type Active struct{}
//
//	func (Active) isStatus() {}
//
// Interfaces with type terms (unions such as ~int | ~string) are classified as
// transform.ShapeUnion, which the transformer rejects.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

// DefaultMarker is the marker used to identify types for code generation.
const DefaultMarker = "+domain:model=true"

// Package is the result of scanning a single package directory.
type Package struct {
	Name       string
	Dir        string
	ImportPath string
	// Declarations are the marked declarations in file name order, then source order.
	Declarations []*transform.Declaration
}

// sourceFile is a parsed file together with its content, so declarations can be sliced verbatim.
type sourceFile struct {
	src     []byte
	ast     *ast.File
	tok     *token.File
	imports []transform.Import
}

func (f *sourceFile) text(from, to token.Pos) string {
	return string(f.src[f.tok.Offset(from):f.tok.Offset(to)])
}

// typeDecl is a type spec found in the package.
type typeDecl struct {
	file    *sourceFile
	genDecl *ast.GenDecl
	spec    *ast.TypeSpec
}

// ScanPackage inspects a folder for Go type declarations marked with marker.
func ScanPackage(folder, marker string) (*Package, error) {
	fset := token.NewFileSet()
	pkg := &Package{Dir: folder}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var types []typeDecl
	// methods maps receiver base type names to their method names.
	methods := map[string][]string{}

	for _, entry := range entries {
		if entry.IsDir() || !IsValidGoFile(entry.Name()) {
			continue
		}

		fullPath := filepath.Join(folder, entry.Name())
		src, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, err
		}
		file, err := parser.ParseFile(fset, fullPath, src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", fullPath, err)
		}

		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		}

		sf := &sourceFile{src: src, ast: file, tok: fset.File(file.Pos()), imports: fileImports(file)}
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, spec := range decl.Specs {
					if typeSpec, ok := spec.(*ast.TypeSpec); ok {
						types = append(types, typeDecl{file: sf, genDecl: decl, spec: typeSpec})
					}
				}
			case *ast.FuncDecl:
				if recv := receiverName(decl); recv != "" {
					methods[recv] = append(methods[recv], decl.Name.Name)
				}
			}
		}
	}

	for _, td := range types {
		if !HasMarker(marker, td.genDecl.Doc, td.spec.Doc) {
			continue
		}
		decl := td.declaration(fset)
		if decl.Shape == transform.ShapeSum {
			decl.Variants = variants(td.spec.Type.(*ast.InterfaceType), types, methods)
		}
		pkg.Declarations = append(pkg.Declarations, decl)
	}

	return pkg, nil
}

// HasMarker returns true if any comment group contains the marker.
func HasMarker(marker string, groups ...*ast.CommentGroup) bool {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if strings.Contains(strings.TrimSpace(c.Text), marker) {
				return true
			}
		}
	}
	return false
}

func (td typeDecl) declaration(fset *token.FileSet) *transform.Declaration {
	shape, fields := classify(td.file, td.spec)
	return &transform.Declaration{
		Name:       td.spec.Name.Name,
		Pos:        fset.Position(td.spec.Name.Pos()),
		TypeParams: typeParams(td.file, td.spec),
		Shape:      shape,
		Fields:     fields,
		Source:     td.source(),
		Imports:    td.file.imports,
	}
}

// source returns the declaration verbatim. Specs of a grouped declaration are
// rendered as standalone declarations with their own doc comment.
func (td typeDecl) source() string {
	f := td.file
	if !td.genDecl.Lparen.IsValid() {
		from := td.genDecl.Pos()
		if td.genDecl.Doc != nil {
			from = td.genDecl.Doc.Pos()
		}
		return f.text(from, td.genDecl.End())
	}
	var doc string
	if td.spec.Doc != nil {
		doc = f.text(td.spec.Doc.Pos(), td.spec.Doc.End()) + "\n"
	}
	return doc + "type " + f.text(td.spec.Pos(), td.spec.End())
}

func typeParams(f *sourceFile, spec *ast.TypeSpec) transform.TypeParams {
	if spec.TypeParams == nil || len(spec.TypeParams.List) == 0 {
		return transform.TypeParams{}
	}
	params := transform.TypeParams{
		List: f.text(spec.TypeParams.Opening+1, spec.TypeParams.Closing),
	}
	for _, field := range spec.TypeParams.List {
		for _, name := range field.Names {
			params.Names = append(params.Names, name.Name)
		}
	}
	return params
}

func classify(f *sourceFile, spec *ast.TypeSpec) (transform.Shape, []transform.Field) {
	if spec.Assign.IsValid() {
		return transform.ShapeAlias, nil
	}
	return classifyExpr(f, spec.Type)
}

func classifyExpr(f *sourceFile, expr ast.Expr) (transform.Shape, []transform.Field) {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return classifyExpr(f, t.X)
	case *ast.StructType:
		fields := structFields(f, t)
		if len(fields) == 0 {
			return transform.ShapeUnit, nil
		}
		return transform.ShapeRecord, fields
	case *ast.InterfaceType:
		if hasTypeTerms(t) {
			return transform.ShapeUnion, nil
		}
		return transform.ShapeSum, nil
	case *ast.StarExpr:
		return transform.ShapePointer, nil
	default:
		return transform.ShapeTuple, []transform.Field{{Index: 0, Type: f.text(expr.Pos(), expr.End())}}
	}
}

func structFields(f *sourceFile, s *ast.StructType) []transform.Field {
	var fields []transform.Field
	for _, field := range s.Fields.List {
		typ := f.text(field.Type.Pos(), field.Type.End())
		if len(field.Names) == 0 {
			fields = append(fields, transform.Field{Name: embeddedName(field.Type), Index: len(fields), Type: typ})
			continue
		}
		for _, name := range field.Names {
			fields = append(fields, transform.Field{Name: name.Name, Index: len(fields), Type: typ})
		}
	}
	return fields
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}

// constraintOnly are predeclared identifiers that can only appear as type terms or constraints.
var constraintOnly = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64",
	"complex64", "complex128",
	"byte", "rune", "comparable",
}

// hasTypeTerms reports whether an interface carries type terms, which makes it a union.
// Embedded named types are assumed to be interfaces.
func hasTypeTerms(iface *ast.InterfaceType) bool {
	for _, m := range iface.Methods.List {
		if len(m.Names) > 0 {
			continue
		}
		switch t := m.Type.(type) {
		case *ast.Ident:
			if slices.Contains(constraintOnly, t.Name) {
				return true
			}
		case *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr:
		case *ast.InterfaceType:
			if hasTypeTerms(t) {
				return true
			}
		default:
			// unions, approximations and literal types
			return true
		}
	}
	return false
}

// sealingMethods are the unexported methods declared in a sum interface,
// including those of embedded interface literals.
func sealingMethods(iface *ast.InterfaceType) []string {
	var names []string
	for _, m := range iface.Methods.List {
		if embedded, ok := m.Type.(*ast.InterfaceType); ok && len(m.Names) == 0 {
			names = append(names, sealingMethods(embedded)...)
			continue
		}
		for _, name := range m.Names {
			if !name.IsExported() {
				names = append(names, name.Name)
			}
		}
	}
	return names
}

// variants returns the package types implementing every sealing method of iface, in package order.
func variants(iface *ast.InterfaceType, types []typeDecl, methods map[string][]string) []transform.Variant {
	sealing := sealingMethods(iface)
	if len(sealing) == 0 {
		return nil
	}

	var result []transform.Variant
	for _, td := range types {
		if !containsAll(methods[td.spec.Name.Name], sealing) {
			continue
		}
		shape, fields := classify(td.file, td.spec)
		result = append(result, transform.Variant{
			Name:       td.spec.Name.Name,
			TypeParams: typeParams(td.file, td.spec),
			Shape:      shape,
			Fields:     fields,
		})
	}
	return result
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

// receiverName returns the base type name of a method receiver, or "" for functions.
func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}
