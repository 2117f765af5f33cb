package policy

// Roles known to the reporting service.
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleSchoolAdmin    = "SCHOOL_ADMIN"
	RoleFinanceAnalyst = "FINANCE_ANALYST"
	RoleDeveloper      = "DEVELOPER"
)

// Permissions gating reporting operations.
const (
	PermReportsRead        = "reports:read"
	PermReportsPendingView = "reports:pending:view"
	PermReportsMonitoring  = "reports:monitoring"
)

// Policy is the immutable authority granted to a role. Field masks are dotted
// paths stripped from output records before they reach the caller.
type Policy struct {
	Permissions []string
	FieldMasks  []string
}

var rolePolicies = map[string]Policy{
	RoleSuperAdmin: {
		Permissions: []string{PermReportsRead, PermReportsPendingView, PermReportsMonitoring},
		FieldMasks:  []string{},
	},
	RoleSchoolAdmin: {
		Permissions: []string{PermReportsRead, PermReportsPendingView},
		FieldMasks:  []string{},
	},
	RoleFinanceAnalyst: {
		Permissions: []string{PermReportsRead, PermReportsPendingView},
		FieldMasks:  []string{"student.guardianEmail"},
	},
	RoleDeveloper: {
		Permissions: []string{PermReportsMonitoring},
		FieldMasks:  []string{"student.guardianEmail", "student.guardianPhone"},
	},
}

// ForRole resolves the policy for a role. Unknown roles get an empty policy,
// never an error. Returned slices are copies; callers may retain them.
func ForRole(role string) Policy {
	entry, ok := rolePolicies[role]
	if !ok {
		return Policy{Permissions: []string{}, FieldMasks: []string{}}
	}
	return Policy{
		Permissions: append([]string(nil), entry.Permissions...),
		FieldMasks:  append([]string(nil), entry.FieldMasks...),
	}
}

// Roles lists the roles the registry knows about.
func Roles() []string {
	return []string{RoleSuperAdmin, RoleSchoolAdmin, RoleFinanceAnalyst, RoleDeveloper}
}

// IsValidRole reports whether role is one of the registered roles.
func IsValidRole(role string) bool {
	_, ok := rolePolicies[role]
	return ok
}
