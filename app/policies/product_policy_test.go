package policies_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/app/policies"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

func TestCanManageProducts(t *testing.T) {
	assert.True(t, policies.CanManageProducts(&auth.Actor{Role: rbac.RoleAdmin}))
	assert.False(t, policies.CanManageProducts(&auth.Actor{Role: rbac.RoleUser}))
	assert.False(t, policies.CanManageProducts(&auth.Actor{Role: "editor"}))
	assert.False(t, policies.CanManageProducts(nil))
}
