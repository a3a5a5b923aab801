package services

import (
	"testing"

	"caretrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func userWithRole(role string) *models.User {
	return &models.User{Role: role, IsActive: true}
}

func TestAllowedModules_RoleDefaults(t *testing.T) {
	assert.ElementsMatch(t, allModules, AllowedModules(userWithRole(models.RoleAdmin)))

	sales := AllowedModules(userWithRole(models.RoleSales))
	assert.ElementsMatch(t, []string{ModuleDashboard, ModuleLeadsB2C, ModuleLeadsB2B, ModuleFollowUps}, sales)

	ops := AllowedModules(userWithRole(models.RoleOps))
	assert.ElementsMatch(t, []string{ModuleDashboard, ModuleServices, ModuleCustomers, ModuleBookings,
		ModuleEmployees, ModuleExpenses, ModuleChannelPartners, ModuleCamps}, ops)

	viewer := AllowedModules(userWithRole(models.RoleViewer))
	assert.Equal(t, []string{ModuleDashboard}, viewer)
}

func TestAllowedModules_OverrideReplacesRoleDefault(t *testing.T) {
	user := userWithRole(models.RoleViewer)
	perms := `["dashboard", "finance"]`
	user.Permissions = &perms

	assert.ElementsMatch(t, []string{ModuleDashboard, ModuleFinance}, AllowedModules(user))
}

func TestAllowedModules_OverrideDropsUnknownNames(t *testing.T) {
	user := userWithRole(models.RoleViewer)
	perms := `["dashboard", "time_travel"]`
	user.Permissions = &perms

	assert.Equal(t, []string{ModuleDashboard}, AllowedModules(user))
}

func TestAllowedModules_MalformedOverrideFallsBack(t *testing.T) {
	user := userWithRole(models.RoleSales)
	perms := `{"not": "a list"}`
	user.Permissions = &perms

	assert.ElementsMatch(t, []string{ModuleDashboard, ModuleLeadsB2C, ModuleLeadsB2B, ModuleFollowUps},
		AllowedModules(user))
}

func TestAllowedModules_EmptyOverrideFallsBack(t *testing.T) {
	user := userWithRole(models.RoleFinance)
	perms := `[]`
	user.Permissions = &perms

	assert.ElementsMatch(t, []string{ModuleDashboard, ModuleBookings, ModuleExpenses, ModuleFinance},
		AllowedModules(user))
}

func TestCanAccess(t *testing.T) {
	sales := userWithRole(models.RoleSales)
	assert.True(t, CanAccess(sales, ModuleLeadsB2C))
	assert.False(t, CanAccess(sales, ModuleFinance))
	assert.False(t, CanAccess(sales, ModuleUsers))
	assert.False(t, CanAccess(sales, ModuleServices))

	ops := userWithRole(models.RoleOps)
	assert.True(t, CanAccess(ops, ModuleServices))

	admin := userWithRole(models.RoleAdmin)
	assert.True(t, CanAccess(admin, ModuleUsers))
	assert.True(t, CanAccess(admin, ModuleSettings))
}
