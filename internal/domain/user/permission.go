package user

type Permission string

const (
	// Memberships
	PermissionSaleManage Permission = "sale.manage"
	PermissionSaleDelete Permission = "sale.delete"
	PermissionVisitMark  Permission = "visit.mark"

	// Clients, plans and employees
	PermissionCatalogManage Permission = "catalog.manage"

	// Staff
	PermissionWorkHoursManage Permission = "workhours.manage"
	PermissionPayrollManage   Permission = "payroll.manage"

	// Finance
	PermissionFinanceView   Permission = "finance.view"
	PermissionFinanceManage Permission = "finance.manage"

	PermissionAlertRefresh Permission = "alert.refresh"
	PermissionUserManage   Permission = "user.manage"
)

// RolePermissions maps roles to their permissions. Reading clients, plans,
// sales, visits and alerts only requires an authenticated user.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionSaleManage,
		PermissionSaleDelete,
		PermissionVisitMark,
		PermissionCatalogManage,
		PermissionWorkHoursManage,
		PermissionPayrollManage,
		PermissionFinanceView,
		PermissionFinanceManage,
		PermissionAlertRefresh,
		PermissionUserManage,
	},
	RoleInstructor: {
		PermissionSaleManage,
		PermissionVisitMark,
	},
	RoleUser: {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
