package policy

import "github.com/bertrandmbololbmm/caisse-app-render/internal/models"

// Resource types the gate knows about.
const (
	ResourceOperation = "operation"
	ResourceCategory  = "category"
	ResourceInvite    = "invite"
	ResourceUser      = "user"
	ResourceJournal   = "journal"
	ResourceReport    = "report"
	ResourceExport    = "export"
)

// readPermissions are shared by every role: the journal, reports and
// exports are readable by all authenticated users.
var readPermissions = []Permission{
	NewPermission(ResourceJournal, ActionView),
	NewPermission(ResourceReport, ActionView),
	NewPermission(ResourceExport, ActionView),
	NewPermission(ResourceOperation, ActionView),
	NewPermission(ResourceOperation, ActionList),
}

// rolePermissions is the authorization decision table. Editors create
// and mutate operations (ownership narrows mutation to their own
// entries, see OwnershipPolicy); only admins manage categories,
// invites and the user list. Viewer and plain user are read-only.
var rolePermissions = map[models.Role][]Permission{
	models.RoleAdmin: {PermissionSuperAdmin},
	models.RoleEditor: append([]Permission{
		NewPermission(ResourceOperation, ActionCreate),
		NewPermission(ResourceOperation, ActionUpdate),
		NewPermission(ResourceOperation, ActionDelete),
	}, readPermissions...),
	models.RoleViewer: readPermissions,
	models.RoleUser:   readPermissions,
}

// RoleAllows checks the decision table for a role/permission pair.
// Unknown roles get the plain-user (read-only) permission set.
func RoleAllows(role models.Role, requested Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[models.RoleUser]
	}
	for _, p := range perms {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}
