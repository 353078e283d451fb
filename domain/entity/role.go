package entity

// Role is an admin user's role
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
)

// Roles lists every known role
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions is the capability set of a role.
// It gates what a client should offer; every mutating path re-checks it server-side.
type Permissions struct {
	CanViewUsers      bool `json:"can_view_users"`
	CanCreateUsers    bool `json:"can_create_users"`
	CanEditUsers      bool `json:"can_edit_users"`
	CanDeleteUsers    bool `json:"can_delete_users"`
	CanViewProducts   bool `json:"can_view_products"`
	CanCreateProducts bool `json:"can_create_products"`
	CanEditProducts   bool `json:"can_edit_products"`
	CanDeleteProducts bool `json:"can_delete_products"`
	CanViewOrders     bool `json:"can_view_orders"`
	CanEditOrders     bool `json:"can_edit_orders"`
	CanViewEvents     bool `json:"can_view_events"`
	CanCreateEvents   bool `json:"can_create_events"`
	CanEditEvents     bool `json:"can_edit_events"`
	CanDeleteEvents   bool `json:"can_delete_events"`
	CanViewSettings   bool `json:"can_view_settings"`
	CanEditSettings   bool `json:"can_edit_settings"`
	// Audit logs are visible and actionable for super admins only.
	CanViewAuditLogs bool `json:"can_view_audit_logs"`
}

var rolePermissions = map[Role]Permissions{
	RoleSuperAdmin: {
		CanViewUsers:      true,
		CanCreateUsers:    true,
		CanEditUsers:      true,
		CanDeleteUsers:    true,
		CanViewProducts:   true,
		CanCreateProducts: true,
		CanEditProducts:   true,
		CanDeleteProducts: true,
		CanViewOrders:     true,
		CanEditOrders:     true,
		CanViewEvents:     true,
		CanCreateEvents:   true,
		CanEditEvents:     true,
		CanDeleteEvents:   true,
		CanViewSettings:   true,
		CanEditSettings:   true,
		CanViewAuditLogs:  true,
	},
	RoleAdmin: {
		CanViewUsers:      true,
		CanCreateUsers:    true,
		CanEditUsers:      true,
		CanViewProducts:   true,
		CanCreateProducts: true,
		CanEditProducts:   true,
		CanDeleteProducts: true,
		CanViewOrders:     true,
		CanEditOrders:     true,
		CanViewEvents:     true,
		CanCreateEvents:   true,
		CanEditEvents:     true,
		CanDeleteEvents:   true,
		CanViewSettings:   true,
	},
	RoleEditor: {
		CanViewUsers:      true,
		CanViewProducts:   true,
		CanCreateProducts: true,
		CanEditProducts:   true,
		CanViewOrders:     true,
		CanViewEvents:     true,
		CanCreateEvents:   true,
		CanEditEvents:     true,
	},
	RoleViewer: {
		CanViewUsers:    true,
		CanViewProducts: true,
		CanViewOrders:   true,
		CanViewEvents:   true,
	},
}

// PermissionsFor maps a role to its capability set. Unknown roles get nothing.
func PermissionsFor(role Role) Permissions {
	return rolePermissions[role]
}

// Actor is the authenticated identity attributed to an action
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Permissions returns the actor's capability set
func (a *Actor) Permissions() Permissions {
	if a == nil {
		return Permissions{}
	}
	return PermissionsFor(a.Role)
}
