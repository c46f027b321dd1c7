package transform

import (
	"errors"
	"go/format"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRecord(t *testing.T) {
	decl := &Declaration{
		Name:  "User",
		Shape: ShapeRecord,
		Fields: []Field{
			{Name: "ID", Index: 0, Type: "string"},
			{Name: "Name", Index: 1, Type: "string"},
		},
		Source: "type User struct {\n\tID   string\n\tName string\n}",
	}

	emitted, err := Transform(decl)
	require.NoError(t, err)

	out := emitted.Source()
	assert.True(t, strings.HasPrefix(out, decl.Source))
	assert.Contains(t, out, "func (User) DomainSafe() {}")
	assert.Contains(t, out, "func (User) DomainModel() {}")
	assert.Contains(t, out, "func _User_domainModelFields() {")
	assert.Equal(t, 2, strings.Count(emitted.Validation, "domain.AssertPrimitive[string]()"))
	assert.Equal(t, []Import{{Name: "domain", Path: DefaultDomainImport}}, emitted.Imports)

	_, err = format.Source([]byte("package p\n\n" + out))
	assert.NoError(t, err, "emitted code must be valid go")
}

func TestTransformUnit(t *testing.T) {
	decl := &Declaration{
		Name:   "Marker",
		Shape:  ShapeUnit,
		Source: "type Marker struct{}",
	}

	emitted, err := Transform(decl)
	require.NoError(t, err)

	out := emitted.Source()
	assert.Contains(t, out, "DomainSafe")
	assert.Contains(t, out, "DomainModel")
	assert.Empty(t, emitted.Validation)
	assert.NotContains(t, out, "_domainModelFields")
}

func TestTransformTuple(t *testing.T) {
	decl := &Declaration{
		Name:   "UserID",
		Shape:  ShapeTuple,
		Fields: []Field{{Index: 0, Type: "string"}},
		Source: "type UserID string",
	}

	assert.Equal(t, []string{"string"}, FieldTypes(decl))

	emitted, err := Transform(decl)
	require.NoError(t, err)
	assert.Contains(t, emitted.Source(), "func (UserID) DomainSafe() {}")
	assert.Contains(t, emitted.Validation, "domain.AssertPrimitive[string]()")
}

func TestTransformSum(t *testing.T) {
	decl := statusDeclaration()

	assert.Equal(t, []string{"string", "int32"}, FieldTypes(decl))

	emitted, err := Transform(decl)
	require.NoError(t, err)

	out := emitted.Source()
	assert.Contains(t, out, "var _ domain.Model = Status(nil)")
	for _, variant := range []string{"Active", "Inactive", "Pending"} {
		assert.Contains(t, out, "func ("+variant+") DomainSafe() {}")
		assert.Contains(t, out, "func ("+variant+") DomainModel() {}")
	}
	reason := strings.Index(emitted.Validation, "AssertPrimitive[string]")
	pending := strings.Index(emitted.Validation, "AssertPrimitive[int32]")
	assert.Positive(t, reason)
	assert.Greater(t, pending, reason, "variant-major ordering")

	_, err = format.Source([]byte("package p\n\n" + out))
	assert.NoError(t, err)
}

func TestTransformSumWithOnlyUnitVariants(t *testing.T) {
	decl := &Declaration{
		Name:  "Color",
		Shape: ShapeSum,
		Variants: []Variant{
			{Name: "Red", Shape: ShapeUnit},
			{Name: "Green", Shape: ShapeUnit},
		},
		Source: "type Color interface {\n\tisColor()\n}",
	}

	emitted, err := Transform(decl)
	require.NoError(t, err)
	assert.Empty(t, emitted.Validation)
	assert.Len(t, emitted.Markers, 3)
	assert.Contains(t, emitted.Source(), "var _ domain.Model = Color(nil)")
}

func TestTransformGeneric(t *testing.T) {
	decl := &Declaration{
		Name:       "Container",
		Shape:      ShapeRecord,
		TypeParams: TypeParams{List: "K interface{ comparable; domain.Safe }, V domain.Safe", Names: []string{"K", "V"}},
		Fields: []Field{
			{Name: "Key", Index: 0, Type: "K"},
			{Name: "Value", Index: 1, Type: "V"},
		},
		Source: "type Container[K interface{ comparable; domain.Safe }, V domain.Safe] struct {\n\tKey   K\n\tValue V\n}",
	}

	emitted, err := Transform(decl)
	require.NoError(t, err)

	out := emitted.Source()
	assert.Contains(t, out, "func (Container[K, V]) DomainSafe() {}")
	assert.Contains(t, out, "func (Container[K, V]) DomainModel() {}")
	assert.Contains(t, out, "func _Container_domainModelFields[K interface{ comparable; domain.Safe }, V domain.Safe]() {")
	assert.Contains(t, emitted.Validation, "domain.AssertSafe[K]()")
	assert.Contains(t, emitted.Validation, "domain.AssertSafe[V]()")
}

func TestTransformGenericSum(t *testing.T) {
	params := TypeParams{List: "T domain.Safe", Names: []string{"T"}}
	decl := &Declaration{
		Name:       "Option",
		Shape:      ShapeSum,
		TypeParams: params,
		Variants: []Variant{
			{Name: "None", TypeParams: params, Shape: ShapeUnit},
			{Name: "Some", TypeParams: params, Shape: ShapeRecord, Fields: []Field{{Name: "Value", Type: "T"}}},
		},
		Source: "type Option[T domain.Safe] interface {\n\tisOption()\n}",
	}

	emitted, err := Transform(decl)
	require.NoError(t, err)

	out := emitted.Source()
	assert.Contains(t, out, "func _Option_domainModel[T domain.Safe]() {")
	assert.Contains(t, out, "var _ domain.Model = Option[T](nil)")
	assert.Contains(t, out, "func (Some[T]) DomainSafe() {}")
	assert.Contains(t, out, "func (None[T]) DomainModel() {}")
	assert.Contains(t, out, "func _Option_Some_domainModelFields[T domain.Safe]() {\n\tdomain.AssertSafe[T]()\n}")
	assert.NotContains(t, out, "_Option_domainModelFields")

	_, err = format.Source([]byte("package p\n\n" + out))
	assert.NoError(t, err)
}

func TestTransformSumWithGenericVariants(t *testing.T) {
	t.Run("variant parameters differ from the sum", func(t *testing.T) {
		decl := &Declaration{
			Name:       "Result",
			Shape:      ShapeSum,
			TypeParams: TypeParams{List: "T domain.Safe", Names: []string{"T"}},
			Variants: []Variant{
				{
					Name:       "Ok",
					TypeParams: TypeParams{List: "V domain.Safe", Names: []string{"V"}},
					Shape:      ShapeRecord,
					Fields:     []Field{{Name: "Value", Type: "V"}},
				},
				{Name: "Failed", Shape: ShapeRecord, Fields: []Field{{Name: "Reason", Type: "string"}}},
			},
		}

		emitted, err := Transform(decl)
		require.NoError(t, err)
		assert.Equal(t, `// _Result_Ok_domainModelFields asserts that every field type of Ok is domain safe.
// It is never called.
//
//nolint:unused
func _Result_Ok_domainModelFields[V domain.Safe]() {
	domain.AssertSafe[V]()
}

// _Result_Failed_domainModelFields asserts that every field type of Failed is domain safe.
// It is never called.
//
//nolint:unused
func _Result_Failed_domainModelFields() {
	domain.AssertPrimitive[string]()
}`, emitted.Validation)
		assert.NotContains(t, emitted.Validation, "[T domain.Safe]")
	})

	t.Run("generic variant of a plain sum", func(t *testing.T) {
		decl := &Declaration{
			Name:  "Plain",
			Shape: ShapeSum,
			Variants: []Variant{
				{Name: "Empty", Shape: ShapeUnit},
				{
					Name:       "Wrapped",
					TypeParams: TypeParams{List: "E domain.Safe", Names: []string{"E"}},
					Shape:      ShapeRecord,
					Fields:     []Field{{Name: "Inner", Type: "E"}, {Name: "Tags", Type: "[]string"}},
				},
			},
		}

		emitted, err := Transform(decl)
		require.NoError(t, err)
		assert.Contains(t, emitted.Validation, "func _Plain_Wrapped_domainModelFields[E domain.Safe]() {\n\tdomain.AssertSafe[E]()\n\tdomain.AssertPrimitive[string]()\n}")
		assert.NotContains(t, emitted.Validation, "_Plain_Empty_")
		assert.NotContains(t, emitted.Validation, "func _Plain_domainModelFields()")
		assert.Contains(t, emitted.Source(), "var _ domain.Model = Plain(nil)")
		assert.Contains(t, emitted.Source(), "func (Wrapped[E]) DomainSafe() {}")
	})
}

func TestTransformUnion(t *testing.T) {
	decl := &Declaration{
		Name:   "Number",
		Pos:    token.Position{Filename: "number.go", Line: 7, Column: 6},
		Shape:  ShapeUnion,
		Source: "type Number interface {\n\t~int | ~float64\n}",
	}

	emitted, err := Transform(decl)
	assert.Nil(t, emitted)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedShape)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "domain_model cannot be applied to unions", compileErr.Message)
	assert.Equal(t, "Number", compileErr.Name)
	assert.Equal(t, "number.go:7:6: domain_model cannot be applied to unions", err.Error())
}

func TestTransformRejectsTypesWithoutMethods(t *testing.T) {
	tests := []struct {
		shape   Shape
		message string
	}{
		{ShapeAlias, "domain_model cannot be applied to type aliases"},
		{ShapePointer, "domain_model cannot be applied to pointer types"},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			_, err := Transform(&Declaration{Name: "X", Shape: tt.shape})
			require.ErrorIs(t, err, ErrUnsupportedShape)
			assert.Equal(t, "X: "+tt.message, err.Error())
		})
	}
}

func TestTransformCompositeFieldTypes(t *testing.T) {
	decl := &Declaration{
		Name:  "Order",
		Shape: ShapeRecord,
		Fields: []Field{
			{Name: "Lines", Index: 0, Type: "[]Line"},
			{Name: "Tags", Index: 1, Type: "map[string]*Tag"},
			{Name: "Placed", Index: 2, Type: "time.Time"},
			{Name: "Total", Index: 3, Type: "money.Amount"},
			{Name: "Notify", Index: 4, Type: "chan string"},
			{Name: "Codes", Index: 5, Type: "[4]byte"},
		},
		Source: "type Order struct{}",
		Imports: []Import{
			{Name: "time", Path: "time"},
			{Name: "money", Path: "example.com/shop/money"},
			{Name: "unused", Path: "example.com/unused"},
		},
	}

	emitted, err := Transform(decl, WithExternalSafeTypes("time.Time"))
	require.NoError(t, err)

	want := []string{
		"domain.AssertSafe[Line]()",
		"domain.AssertPrimitive[string]()",
		"domain.AssertSafe[Tag]()",
		"domain.AssertExternal[time.Time]()",
		"domain.AssertSafe[money.Amount]()",
		"domain.AssertSafe[chan string]()",
		"domain.AssertPrimitive[byte]()",
	}
	last := -1
	for _, line := range want {
		idx := strings.Index(emitted.Validation, line)
		require.Greater(t, idx, last, "missing or out of order: %s", line)
		last = idx
	}

	assert.Equal(t, []Import{
		{Name: "domain", Path: DefaultDomainImport},
		{Name: "money", Path: "example.com/shop/money"},
		{Name: "time", Path: "time"},
	}, emitted.Imports)
}

func TestTransformDuplicateFieldTypesAreCheckedIndependently(t *testing.T) {
	decl := &Declaration{
		Name:  "Pair",
		Shape: ShapeRecord,
		Fields: []Field{
			{Name: "Left", Index: 0, Type: "Money"},
			{Name: "Right", Index: 1, Type: "Money"},
		},
	}
	emitted, err := Transform(decl)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(emitted.Validation, "domain.AssertSafe[Money]()"))
}

func TestTransformCustomDomainPackage(t *testing.T) {
	decl := &Declaration{
		Name:   "Email",
		Shape:  ShapeTuple,
		Fields: []Field{{Type: "string"}},
	}

	emitted, err := Transform(decl, WithDomainPackage("dm"), WithDomainImport("example.com/dm"))
	require.NoError(t, err)
	assert.Contains(t, emitted.Validation, "dm.AssertPrimitive[string]()")
	assert.Equal(t, []Import{{Name: "dm", Path: "example.com/dm"}}, emitted.Imports)

	emitted, err = Transform(decl, WithDomainPackage(""))
	require.NoError(t, err)
	assert.Contains(t, emitted.Validation, "\tAssertPrimitive[string]()")
	assert.Empty(t, emitted.Imports)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	decl := statusDeclaration()
	before := *statusDeclaration()

	_, err := Transform(decl)
	require.NoError(t, err)
	assert.Equal(t, before, *decl)
}

func statusDeclaration() *Declaration {
	return &Declaration{
		Name:  "Status",
		Shape: ShapeSum,
		Variants: []Variant{
			{Name: "Active", Shape: ShapeUnit},
			{Name: "Inactive", Shape: ShapeRecord, Fields: []Field{{Name: "Reason", Index: 0, Type: "string"}}},
			{Name: "Pending", Shape: ShapeTuple, Fields: []Field{{Index: 0, Type: "int32"}}},
		},
		Source: "// +domain:model=true\ntype Status interface {\n\tisStatus()\n}",
	}
}

func TestShapeText(t *testing.T) {
	var shape Shape
	require.NoError(t, shape.UnmarshalText([]byte("sum")))
	assert.Equal(t, ShapeSum, shape)

	text, err := ShapeTuple.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "tuple", string(text))

	assert.ErrorContains(t, shape.UnmarshalText([]byte("enum")), `unknown shape "enum"`)
	assert.Equal(t, "unknown", Shape(42).String())
}
