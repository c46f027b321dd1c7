package model

import (
	"time"

	"ocm.software/open-component-model/bindings/go/domainmodel/domain"
)

// UserID identifies a user.
// +domain:model=true
type UserID string

// User is a registered user.
// +domain:model=true
type User struct {
	ID          UserID
	Name, Email string
	Address     *Address
	CreatedAt   time.Time
}

// +domain:model=true
type Address struct {
	Street string
	City   string
}

// Marker carries no data.
// +domain:model=true
type Marker struct{}

// +domain:model=true
type Container[K interface{ comparable; domain.Safe }, V domain.Safe] struct {
	Key   K
	Value V
}

// Number is a constraint and cannot be a domain model.
// +domain:model=true
type Number interface {
	~int | ~float64
}

type (
	// Count is declared in a group.
	// +domain:model=true
	Count int64

	Unmarked struct{ Conn chan int }
)
