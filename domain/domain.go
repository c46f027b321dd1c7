// Package domain defines the capabilities that domaingen attaches to annotated types.
//
// A type is domain safe when it is free of infrastructure dependencies and may
// therefore be embedded as a field inside a domain model. Predeclared value types
// are pre-registered as safe through the Primitive constraint. Every type that
// carries the
//
//	// +domain:model=true
//
// marker receives generated DomainSafe and DomainModel methods, so it is safe by
// construction and can itself be used as a field in other domain models.
//
// The Assert functions are never meant to be called. Generated code instantiates
// them inside functions that are not invoked, so a field type that does not
// satisfy the capability turns into a compile error and nothing runs at runtime.
package domain

// Safe is implemented by types that can be used as fields of a domain model.
type Safe interface {
	DomainSafe()
}

// Model is implemented by registered domain models.
// Being Safe is required but not sufficient to be a Model.
type Model interface {
	Safe
	DomainModel()
}

// Primitive is the set of predeclared value types that are safe without a marker.
type Primitive interface {
	~bool | ~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// AssertSafe compiles only if T implements Safe.
func AssertSafe[T Safe]() {}

// AssertModel compiles only if T implements Model.
func AssertModel[T Model]() {}

// AssertPrimitive compiles only if T is a predeclared value type.
func AssertPrimitive[T Primitive]() {}

// AssertExternal marks T as safe by configuration.
// It only requires T to resolve, since types of foreign packages cannot carry markers.
func AssertExternal[T any]() {}
