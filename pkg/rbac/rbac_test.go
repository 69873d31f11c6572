package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

func TestGrants(t *testing.T) {
	assert.True(t, rbac.Can(rbac.RoleAdmin, rbac.ManageProducts))
	assert.False(t, rbac.Can(rbac.RoleUser, rbac.ManageProducts))
	assert.False(t, rbac.Can("editor", rbac.ManageProducts))
	assert.False(t, rbac.Can("", rbac.ManageProducts))
}

func TestRoles(t *testing.T) {
	assert.Equal(t, []rbac.Role{rbac.RoleAdmin, rbac.RoleUser}, rbac.Roles())
	assert.True(t, rbac.Valid(rbac.RoleUser))
	assert.False(t, rbac.Valid("root"))
}
