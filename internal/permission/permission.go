// Package permission decides what a caller may do based on its role.
//
// A nil caller is anonymous. The superuser flag satisfies every role check.
package permission

import "yamdb-api/internal/model"

// IsAdmin reports whether caller may manage accounts and the catalog.
func IsAdmin(caller *model.User) bool {
	return HasRole(caller, model.RoleAdmin)
}

// IsModerator reports whether caller is a moderator or above.
func IsModerator(caller *model.User) bool {
	return HasRole(caller, model.RoleModerator)
}

// HasRole reports whether caller is authenticated and ranked at least min.
func HasRole(caller *model.User, min model.Role) bool {
	if caller == nil {
		return false
	}
	if caller.IsSuperuser {
		return true
	}
	return caller.Role.AtLeast(min)
}

// CanWriteCatalog gates creating, editing and deleting titles, categories and
// genres. Reads are public.
func CanWriteCatalog(caller *model.User) bool {
	return IsAdmin(caller)
}
