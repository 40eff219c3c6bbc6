// Package authz holds the ownership checks shared by all mutating operations.
package authz

import "blogx/internal/models"

// RequireOwner returns a forbidden error unless caller is the owner of the
// named resource. Callers pass the owning username recorded on the resource.
func RequireOwner(owner, caller, resource string) error {
	if owner != caller {
		return models.NewForbiddenError("you do not have permission to modify this " + resource)
	}
	return nil
}
