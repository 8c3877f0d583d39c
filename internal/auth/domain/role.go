package domain

// Role is the closed set of workshop roles. There is no role hierarchy:
// each role's permission list below is authored independently, so editing
// one table never silently changes another.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleTechnician}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Permission is a named capability an action is gated on.
type Permission string

const (
	PermManageUsers       Permission = "manage_users"
	PermManageTasks       Permission = "manage_tasks"
	PermViewTasks         Permission = "view_tasks"
	PermCreateTasks       Permission = "create_tasks"
	PermUpdateTasks       Permission = "update_tasks"
	PermDeleteTasks       Permission = "delete_tasks"
	PermViewReports       Permission = "view_reports"
	PermManageSettings    Permission = "manage_settings"
	PermAccessAIAssistant Permission = "access_ai_assistant"
	PermManageEmployees   Permission = "manage_employees"
	PermViewAnalytics     Permission = "view_analytics"
)

// rolePermissions holds one literal list per role. Callers depend on these
// exact capability names; keep them as independent enumerations.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermManageUsers,
		PermManageTasks,
		PermViewTasks,
		PermCreateTasks,
		PermUpdateTasks,
		PermDeleteTasks,
		PermViewReports,
		PermManageSettings,
		PermAccessAIAssistant,
		PermManageEmployees,
		PermViewAnalytics,
	},
	RoleManager: {
		PermManageTasks,
		PermViewTasks,
		PermCreateTasks,
		PermUpdateTasks,
		PermDeleteTasks,
		PermViewReports,
		PermAccessAIAssistant,
		PermManageEmployees,
		PermViewAnalytics,
	},
	RoleTechnician: {
		PermViewTasks,
		PermUpdateTasks,
		PermAccessAIAssistant,
	},
}

// Permissions returns the capability list for the role. Total for the three
// known roles; unknown roles get an empty list.
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the account's role grants the capability.
func (a Account) HasPermission(p Permission) bool {
	for _, have := range rolePermissions[a.Role] {
		if have == p {
			return true
		}
	}
	return false
}
