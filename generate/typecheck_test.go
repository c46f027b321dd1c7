package generate

import (
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
	"ocm.software/open-component-model/bindings/go/domainmodel/transform"
)

// checker type-checks package folders together with their generated files.
// The domain package is loaded from its sources in this module, all other
// imports from the standard library sources.
type checker struct {
	fset   *token.FileSet
	std    types.ImporterFrom
	domain *types.Package
}

func newChecker() *checker {
	fset := token.NewFileSet()
	return &checker{fset: fset, std: importer.ForCompiler(fset, "source", nil).(types.ImporterFrom)}
}

func (c *checker) Import(path string) (*types.Package, error) {
	return c.ImportFrom(path, "", 0)
}

func (c *checker) ImportFrom(path, dir string, mode types.ImportMode) (*types.Package, error) {
	if path != transform.DefaultDomainImport {
		return c.std.ImportFrom(path, dir, mode)
	}
	if c.domain == nil {
		pkg, err := c.check(path, filepath.Join("..", "domain"))
		if err != nil {
			return nil, err
		}
		c.domain = pkg
	}
	return c.domain, nil
}

func (c *checker) check(path, dir string) (*types.Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(c.fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	var errs []error
	conf := types.Config{
		Importer: c,
		Error:    func(err error) { errs = append(errs, err) },
	}
	pkg, _ := conf.Check(path, c.fset, files, nil)
	return pkg, errors.Join(errs...)
}

// typeCheck type-checks the package in dir including its generated file.
func typeCheck(t *testing.T, dir string) error {
	t.Helper()
	_, err := newChecker().check("example.com/check/"+filepath.Base(dir), dir)
	return err
}

// generateInto scans dir, renders it with testConfig and writes the generated file.
func generateInto(t *testing.T, dir string) ([]byte, error) {
	t.Helper()
	pkg, err := scan.ScanPackage(dir, scan.DefaultMarker)
	require.NoError(t, err)
	content, renderErr := Render(testConfig(), pkg)
	require.NotNil(t, content)
	require.NoError(t, os.WriteFile(filepath.Join(dir, testConfig().OutputFile), content, 0o600))
	return content, renderErr
}

const resultSource = `package result

import "ocm.software/open-component-model/bindings/go/domainmodel/domain"

// +domain:model=true
type Result[T domain.Safe] interface {
	domain.Model
	isResult()
}

type Ok[V domain.Safe] struct {
	Value V
}

type Failed struct {
	Reason string
}

func (Ok[V]) isResult()  {}
func (Failed) isResult() {}

// +domain:model=true
type Plain interface {
	domain.Model
	isPlain()
}

type Wrapped[E domain.Safe] struct {
	Inner E
	Tags  []string
}

type Empty struct{}

func (Wrapped[E]) isPlain() {}
func (Empty) isPlain()      {}
`

func TestGeneratedCodeCompiles(t *testing.T) {
	t.Run("scanner fixture", func(t *testing.T) {
		dir := t.TempDir()
		fixtures, err := filepath.Glob(filepath.Join("..", "scan", "testdata", "model", "*.go"))
		require.NoError(t, err)
		require.NotEmpty(t, fixtures)
		for _, fixture := range fixtures {
			content, err := os.ReadFile(fixture)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.Base(fixture)), content, 0o600))
		}

		content, err := generateInto(t, dir)
		require.ErrorIs(t, err, transform.ErrUnsupportedShape, "the Number union is rejected")
		assert.Contains(t, string(content), "func _Container_domainModelFields[K interface{ comparable; domain.Safe }, V domain.Safe]() {")
		assert.NoError(t, typeCheck(t, dir))
	})

	t.Run("model with sum", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"model.go": modelSource})

		_, err := generateInto(t, dir)
		require.NoError(t, err)
		assert.NoError(t, typeCheck(t, dir))
	})

	t.Run("sums with generic variants", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"result.go": resultSource})

		content, err := generateInto(t, dir)
		require.NoError(t, err)

		out := string(content)
		assert.Contains(t, out, "func _Result_domainModel[T domain.Safe]() {")
		assert.Contains(t, out, "func _Result_Ok_domainModelFields[V domain.Safe]() {")
		assert.Contains(t, out, "func _Result_Failed_domainModelFields() {")
		assert.Contains(t, out, "func _Plain_Wrapped_domainModelFields[E domain.Safe]() {")
		assert.Less(t, strings.Index(out, "_Result_Ok_domainModelFields"), strings.Index(out, "_Result_Failed_domainModelFields"))
		assert.NoError(t, typeCheck(t, dir))
	})

	t.Run("unsafe field type fails to compile", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"holder.go": `package holder

type Conn struct{}

// +domain:model=true
type Holder struct {
	Conn Conn
}
`})

		_, err := generateInto(t, dir)
		require.NoError(t, err)

		err = typeCheck(t, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing method DomainSafe")
	})
}
