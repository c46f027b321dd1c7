package transform

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"slices"
)

// primitives are the predeclared value types that are pre-registered as safe.
var primitives = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64",
	"complex64", "complex128",
	"byte", "rune",
}

// assertionWriter renders the compile-time checks for field types.
type assertionWriter struct {
	opts       *Options
	typeParams []string
	lines      []string
}

// add renders the checks for a single field type. Pointers, slices, arrays
// and maps cannot carry markers themselves, so the check descends into
// their element and key types.
func (w *assertionWriter) add(typ string) {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		// leave the diagnosis to the compiler
		w.emit("AssertSafe", typ)
		return
	}
	w.walk(expr)
}

func (w *assertionWriter) walk(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		w.walk(e.X)
		return
	case *ast.StarExpr:
		w.walk(e.X)
		return
	case *ast.ArrayType:
		w.walk(e.Elt)
		return
	case *ast.MapType:
		w.walk(e.Key)
		w.walk(e.Value)
		return
	}

	typ := types.ExprString(expr)
	switch {
	case slices.Contains(w.opts.ExternalSafeTypes, typ):
		w.emit("AssertExternal", typ)
	case w.isPrimitive(expr):
		w.emit("AssertPrimitive", typ)
	default:
		w.emit("AssertSafe", typ)
	}
}

func (w *assertionWriter) isPrimitive(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	if !ok || slices.Contains(w.typeParams, ident.Name) {
		return false
	}
	return slices.Contains(primitives, ident.Name)
}

func (w *assertionWriter) emit(fn, typ string) {
	w.lines = append(w.lines, fmt.Sprintf("%s[%s]()", w.opts.qualify(fn), typ))
}
