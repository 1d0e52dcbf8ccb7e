package authz

import "strconv"

const (
	RoleSales      = 10
	RoleOperations = 20
	RoleAudit      = 30
	RoleManagement = 40
	RoleAdmin      = 50
)

func IsElevated(roleID int) bool {
	return roleID == RoleOperations || roleID == RoleManagement || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAudit
}

var roleNames = map[int]string{
	RoleSales:      "sales",
	RoleOperations: "operations",
	RoleAudit:      "audit",
	RoleManagement: "management",
	RoleAdmin:      "admin",
}

// RoleName returns the lowercase role name, or the numeric id for unknown roles.
func RoleName(roleID int) string {
	if name, ok := roleNames[roleID]; ok {
		return name
	}
	return strconv.Itoa(roleID)
}

func RoleByName(name string) (int, bool) {
	for id, n := range roleNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
