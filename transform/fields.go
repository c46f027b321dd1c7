package transform

// FieldTypes returns the flattened field types of decl.
//
// Product shapes yield their field types in declaration order. Sum shapes are
// flattened variant-major, field-minor. Unit shapes and unit variants contribute
// nothing. Duplicates are kept, every occurrence is validated on its own.
func FieldTypes(decl *Declaration) []string {
	var types []string
	switch decl.Shape {
	case ShapeRecord, ShapeTuple:
		types = appendFieldTypes(types, decl.Fields)
	case ShapeSum:
		for _, v := range decl.Variants {
			types = appendFieldTypes(types, v.Fields)
		}
	}
	return types
}

func appendFieldTypes(types []string, fields []Field) []string {
	for _, f := range fields {
		types = append(types, f.Type)
	}
	return types
}
