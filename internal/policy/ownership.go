package policy

import (
	"context"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

// Ownable is implemented by resources that belong to a user.
// models.Operation implements it.
type Ownable interface {
	GetUserID() uint
}

// ResourcePolicy narrows a table-granted permission for a specific
// resource instance. Used for ownership checks on edit/delete.
type ResourcePolicy interface {
	// Can returns true if the user may perform action on resource.
	// resource may be nil for create/list checks.
	Can(ctx context.Context, userID uint, role models.Role, action Action, resource any) bool
}

// OwnershipPolicy allows admins to touch any resource and everyone
// else only resources they own.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates an ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks ownership. Admins bypass the check entirely. A non-nil
// resource that does not implement Ownable is denied by default so an
// unowned model can never slip through an ownership gate.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, role models.Role, _ Action, resource any) bool {
	if role == models.RoleAdmin {
		return true
	}
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}
