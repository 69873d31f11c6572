// Package rbac maps roles to the permissions they grant.
package rbac

import "sort"

type Role string

type Permission string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ManageProducts covers creating, editing and deleting products.
const ManageProducts Permission = "products.manage"

var grants = map[Role]map[Permission]bool{
	RoleAdmin: {ManageProducts: true},
	RoleUser:  {},
}

// Can reports whether role grants p. Unknown roles grant nothing.
func Can(role Role, p Permission) bool {
	return grants[role][p]
}

func Valid(role Role) bool {
	_, ok := grants[role]
	return ok
}

// Roles lists the known roles in name order.
func Roles() []Role {
	out := make([]Role, 0, len(grants))
	for r := range grants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
