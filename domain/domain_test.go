package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ocm.software/open-component-model/bindings/go/domainmodel/domain"
)

type email string

func (email) DomainSafe() {}

type user struct {
	Email email
}

func (user) DomainSafe()  {}
func (user) DomainModel() {}

var (
	_ domain.Safe  = email("")
	_ domain.Safe  = user{}
	_ domain.Model = user{}
	_ domain.Safe  = (*user)(nil)
)

func TestAssertionsCompile(t *testing.T) {
	domain.AssertSafe[email]()
	domain.AssertSafe[*user]()
	domain.AssertModel[user]()
	domain.AssertPrimitive[string]()
	domain.AssertPrimitive[email]()
	domain.AssertPrimitive[byte]()
	domain.AssertPrimitive[rune]()
	domain.AssertExternal[struct{}]()
}

func TestSafeIsNotModel(t *testing.T) {
	_, isModel := any(email("a@b.c")).(domain.Model)
	assert.False(t, isModel)
	_, isModel = any(user{}).(domain.Model)
	assert.True(t, isModel)
}
