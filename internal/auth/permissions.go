package auth

import "github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"

// Permission names for RBAC checks.
const (
	// Admin permissions
	PermManageUsers   = "manage_users"
	PermDeleteLogs    = "delete_logs"
	PermExportData    = "export_data"
	PermViewAuditLogs = "view_audit_logs"

	// User permissions
	PermCreateAlerts = "create_alerts"
	PermUpdateAlerts = "update_alerts"
	PermViewAlerts   = "view_alerts"
	PermCreateLogs   = "create_logs"
	PermViewLogs     = "view_logs"

	// Viewer permissions
	PermViewDashboard = "view_dashboard"
	PermViewAnalytics = "view_analytics"
)

// rolePermissions maps each role to its granted permission set. Kept simple;
// more granular grants can be added per permission without touching callers.
var rolePermissions = map[models.UserRole][]string{
	models.RoleAdmin: {
		PermManageUsers, PermDeleteLogs, PermExportData, PermViewAuditLogs,
		PermCreateAlerts, PermUpdateAlerts, PermViewAlerts,
		PermCreateLogs, PermViewLogs,
		PermViewDashboard, PermViewAnalytics,
	},
	models.RoleUser: {
		PermCreateAlerts, PermUpdateAlerts, PermViewAlerts,
		PermCreateLogs, PermViewLogs,
		PermViewDashboard, PermViewAnalytics,
	},
	models.RoleViewer: {
		PermViewAlerts, PermViewLogs,
		PermViewDashboard, PermViewAnalytics,
	},
}

// HasPermission reports whether a role grants the given permission.
func HasPermission(role models.UserRole, permission string) bool {
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
