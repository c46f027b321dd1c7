// Package transform implements the declaration transformer behind domaingen.
//
// Transform takes a parsed type declaration and returns the code that turns it
// into a domain model: marker methods that implement domain.Safe and
// domain.Model, and, when the declaration has fields, a function that is never
// called but only compiles if every field type is domain safe.
//
// The transformation is pure. The same declaration always yields byte-identical
// output and the input is never modified.
package transform

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"slices"
	"strings"
)

const (
	// DefaultDomainImport is the import path of the capability package referenced by generated code.
	DefaultDomainImport = "ocm.software/open-component-model/bindings/go/domainmodel/domain"
	// DefaultDomainPackage is the qualifier used for DefaultDomainImport.
	DefaultDomainPackage = "domain"
)

// Options configure Transform.
type Options struct {
	// DomainImport is the import path of the capability package.
	DomainImport string
	// DomainPackage is the qualifier of the capability package.
	// An empty qualifier references the capabilities unqualified, which is
	// needed when generating inside the capability package itself.
	DomainPackage string
	// ExternalSafeTypes are field types, as written in source (e.g. "time.Time"),
	// that are treated as pre-registered safe.
	ExternalSafeTypes []string
}

type Option func(*Options)

// WithDomainImport sets the import path of the capability package.
func WithDomainImport(path string) Option {
	return func(o *Options) {
		o.DomainImport = path
	}
}

// WithDomainPackage sets the qualifier of the capability package.
func WithDomainPackage(name string) Option {
	return func(o *Options) {
		o.DomainPackage = name
	}
}

// WithExternalSafeTypes adds field types that are treated as pre-registered safe.
func WithExternalSafeTypes(types ...string) Option {
	return func(o *Options) {
		o.ExternalSafeTypes = append(o.ExternalSafeTypes, types...)
	}
}

func newOptions(opts []Option) *Options {
	o := &Options{
		DomainImport:  DefaultDomainImport,
		DomainPackage: DefaultDomainPackage,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) qualify(name string) string {
	if o.DomainPackage == "" {
		return name
	}
	return o.DomainPackage + "." + name
}

// Marker is a registration emitted for a declaration.
type Marker struct {
	// Receiver is the type that receives the marker methods.
	// It is empty for registrations that do not declare methods.
	Receiver string
	Code     string
}

// Emitted is the result of a successful transformation.
type Emitted struct {
	Name string
	// Declaration is the original declaration, verbatim.
	Declaration string
	Markers     []Marker
	// Validation is empty when the declaration has no fields.
	Validation string
	// Imports are needed by the generated code.
	Imports []Import
}

// Generated returns the code appended to the declaration: markers first, then the validation.
func (e *Emitted) Generated() string {
	var b strings.Builder
	for i, m := range e.Markers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Code)
	}
	if e.Validation != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Validation)
	}
	return b.String()
}

// Source returns the original declaration followed by the generated code.
func (e *Emitted) Source() string {
	return e.Declaration + "\n\n" + e.Generated() + "\n"
}

// Transform turns decl into a domain model.
// Unions, aliases and pointer types fail with a *CompileError matching ErrUnsupportedShape.
func Transform(decl *Declaration, opts ...Option) (*Emitted, error) {
	o := newOptions(opts)

	switch decl.Shape {
	case ShapeUnion:
		return nil, newCompileError(decl, msgUnion)
	case ShapeAlias:
		return nil, newCompileError(decl, msgAlias)
	case ShapePointer:
		return nil, newCompileError(decl, msgPointer)
	}

	emitted := &Emitted{
		Name:        decl.Name,
		Declaration: decl.Source,
		Markers:     markers(decl, o),
		Validation:  validations(decl, o),
	}
	emitted.Imports = imports(decl, emitted.Generated(), o)
	return emitted, nil
}

func markers(decl *Declaration, o *Options) []Marker {
	if decl.Shape != ShapeSum {
		return []Marker{{Receiver: decl.Name, Code: markerMethods(decl.Name, decl.TypeParams)}}
	}

	result := make([]Marker, 0, len(decl.Variants)+1)
	result = append(result, Marker{Code: sumRegistration(decl, o)})
	for _, v := range decl.Variants {
		result = append(result, Marker{Receiver: v.Name, Code: markerMethods(v.Name, v.TypeParams)})
	}
	return result
}

func markerMethods(name string, params TypeParams) string {
	receiver := name + params.Instantiate()
	return fmt.Sprintf(`// DomainSafe marks %[1]s as safe to embed in domain models.
func (%[2]s) DomainSafe() {}

// DomainModel registers %[1]s as a domain model.
func (%[2]s) DomainModel() {}`, name, receiver)
}

// sumRegistration asserts that the sealed interface itself is a domain model.
// Its variants satisfy it through their marker methods.
func sumRegistration(decl *Declaration, o *Options) string {
	model := o.qualify("Model")
	if decl.TypeParams.IsEmpty() {
		return fmt.Sprintf(`// %[1]s is a domain model through its variants.
var _ %[2]s = %[1]s(nil)`, decl.Name, model)
	}
	return fmt.Sprintf(`// _%[1]s_domainModel asserts that every instantiation of %[1]s is a domain model.
//
//nolint:unused
func _%[1]s_domainModel%[2]s() {
	var _ %[3]s = %[1]s%[4]s(nil)
}`, decl.Name, decl.TypeParams.Declare(), model, decl.TypeParams.Instantiate())
}

// validations renders the field assertions of decl.
//
// Variants are declared on their own and may carry their own type parameters,
// which are not in scope of a function parameterized like the sum. As soon as
// one variant is generic, every variant with fields gets its own function, in
// variant order, so the checks stay variant-major.
func validations(decl *Declaration, o *Options) string {
	if decl.Shape != ShapeSum || !slices.ContainsFunc(decl.Variants, isGeneric) {
		return validation(decl.Name, decl.Name, decl.TypeParams, FieldTypes(decl), o)
	}

	var funcs []string
	for _, v := range decl.Variants {
		if fn := validation(decl.Name+"_"+v.Name, v.Name, v.TypeParams, appendFieldTypes(nil, v.Fields), o); fn != "" {
			funcs = append(funcs, fn)
		}
	}
	return strings.Join(funcs, "\n\n")
}

func isGeneric(v Variant) bool {
	return !v.TypeParams.IsEmpty()
}

func validation(name, subject string, params TypeParams, fieldTypes []string, o *Options) string {
	if len(fieldTypes) == 0 {
		return ""
	}

	w := &assertionWriter{opts: o, typeParams: params.Names}
	for _, typ := range fieldTypes {
		w.add(typ)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// _%s_domainModelFields asserts that every field type of %s is domain safe.\n", name, subject)
	b.WriteString("// It is never called.\n//\n//nolint:unused\n")
	fmt.Fprintf(&b, "func _%s_domainModelFields%s() {\n", name, params.Declare())
	for _, line := range w.lines {
		b.WriteString("\t")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// imports resolves the package qualifiers used in code against the imports
// of the declaration's file. Qualifiers that cannot be resolved are left to
// the compiler to report.
func imports(decl *Declaration, code string, o *Options) []Import {
	qualifiers := qualifiersOf(code)
	result := make([]Import, 0, len(qualifiers))
	for _, q := range qualifiers {
		if q == o.DomainPackage {
			result = append(result, Import{Name: q, Path: o.DomainImport})
			continue
		}
		for _, imp := range decl.Imports {
			if imp.Name == q {
				result = append(result, imp)
				break
			}
		}
	}
	return result
}

// qualifiersOf returns the sorted set of package qualifiers referenced in code.
func qualifiersOf(code string) []string {
	file, err := parser.ParseFile(token.NewFileSet(), "", "package p\n\n"+code, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}
	var qualifiers []string
	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && !slices.Contains(qualifiers, ident.Name) {
			qualifiers = append(qualifiers, ident.Name)
		}
		return true
	})
	slices.Sort(qualifiers)
	return qualifiers
}
