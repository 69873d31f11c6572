// Package policies answers authorization questions about the catalog.
package policies

import (
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

// CanManageProducts reports whether actor may create, edit or delete
// products. Guests never can.
func CanManageProducts(actor *auth.Actor) bool {
	return actor.Can(rbac.ManageProducts)
}
