package model

import "ocm.software/open-component-model/bindings/go/domainmodel/domain"

// Status is the lifecycle state of an account.
// +domain:model=true
type Status interface {
	domain.Model
	isStatus()
}

type Active struct{}

type Inactive struct {
	Reason string
}

type Pending int32

func (Active) isStatus() {}

func (i *Inactive) isStatus() {}

func (Pending) isStatus() {}

func (Pending) String() string { return "pending" }
