package services

import (
	"encoding/json"

	"caretrack/internal/models"
)

// Module names used for access control and navigation.
const (
	ModuleDashboard       = "dashboard"
	ModuleLeadsB2C        = "leads_b2c"
	ModuleLeadsB2B        = "leads_b2b"
	ModuleFollowUps       = "follow_ups"
	ModuleServices        = "services"
	ModuleCustomers       = "customers"
	ModuleBookings        = "bookings"
	ModuleEmployees       = "employees"
	ModuleExpenses        = "expenses"
	ModuleChannelPartners = "channel_partners"
	ModuleCamps           = "camps"
	ModuleFinance         = "finance"
	ModuleSettings        = "settings"
	ModuleUsers           = "users"
)

var allModules = []string{
	ModuleDashboard, ModuleLeadsB2C, ModuleLeadsB2B, ModuleFollowUps, ModuleServices,
	ModuleCustomers, ModuleBookings, ModuleEmployees, ModuleExpenses, ModuleChannelPartners,
	ModuleCamps, ModuleFinance, ModuleSettings, ModuleUsers,
}

// roleModules maps each role to its default module set. ADMIN gets
// everything, including settings and user management.
var roleModules = map[string][]string{
	models.RoleAdmin: allModules,
	models.RoleSales: {ModuleDashboard, ModuleLeadsB2C, ModuleLeadsB2B, ModuleFollowUps},
	models.RoleOps: {ModuleDashboard, ModuleServices, ModuleCustomers, ModuleBookings,
		ModuleEmployees, ModuleExpenses, ModuleChannelPartners, ModuleCamps},
	models.RoleFinance: {ModuleDashboard, ModuleBookings, ModuleExpenses, ModuleFinance},
	models.RoleViewer:  {ModuleDashboard},
}

// AllowedModules resolves the modules a user may access. A non-empty
// per-user permissions JSON array fully replaces the role default; a
// malformed or empty one falls back to it.
func AllowedModules(user *models.User) []string {
	if user.Permissions != nil {
		var override []string
		if err := json.Unmarshal([]byte(*user.Permissions), &override); err == nil && len(override) > 0 {
			return filterKnown(override)
		}
	}
	return roleModules[user.Role]
}

// CanAccess reports whether the user may reach the given module.
func CanAccess(user *models.User, module string) bool {
	for _, m := range AllowedModules(user) {
		if m == module {
			return true
		}
	}
	return false
}

func filterKnown(modules []string) []string {
	var out []string
	for _, m := range modules {
		for _, known := range allModules {
			if m == known {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
