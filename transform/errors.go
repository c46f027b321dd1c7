package transform

import (
	"errors"
	"fmt"
	"go/token"
)

// ErrUnsupportedShape is matched by every CompileError.
var ErrUnsupportedShape = errors.New("unsupported declaration shape")

const (
	msgUnion   = "domain_model cannot be applied to unions"
	msgAlias   = "domain_model cannot be applied to type aliases"
	msgPointer = "domain_model cannot be applied to pointer types"
)

// CompileError is a diagnostic anchored at the name of the offending declaration.
type CompileError struct {
	Pos     token.Position
	Name    string
	Message string
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

func newCompileError(decl *Declaration, message string) *CompileError {
	return &CompileError{Pos: decl.Pos, Name: decl.Name, Message: message}
}
