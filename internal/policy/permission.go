// Package policy is the authorization gate of the cash journal. It
// combines a static role→permission table with ownership checks on
// individual operations. The table in roles.go is the single source of
// truth for who may do what; handlers never compare role strings.
package policy

import "strings"

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Permission is an allowed action on a resource type, in
// "resource:action" form (e.g. "operation:create").
type Permission string

// NewPermission builds a permission from a resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], Action(parts[1])
}

// Wildcards for super permissions.
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks whether this permission covers a requested one.
// "*:*" matches everything; "operation:*" matches all operation actions.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin {
		return true
	}
	if p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == WildcardAll
}
