// Package navigation maps authenticated roles to their landing pages.
package navigation

import (
	"github.com/budgetoffice/staff-portal/internal/users"
)

// Page identifies a UI page the portal can land on.
type Page string

const (
	PageHome              Page = "home"
	PageLogin             Page = "login"
	PageDirectorDashboard Page = "director-dashboard"
	PageICTDashboard      Page = "ict-dashboard"
	PageStaffDashboard    Page = "staff-dashboard"
)

var landingPages = map[users.Role]Page{
	users.RoleOrganizationHead: PageDirectorDashboard,
	users.RoleICTHead:          PageICTDashboard,
	users.RoleStaff:            PageStaffDashboard,
}

// LandingPage resolves a role to its dashboard. A role the portal does not
// recognize lands on the login page rather than failing.
func LandingPage(role users.Role) Page {
	if page, ok := landingPages[role]; ok {
		return page
	}
	return PageLogin
}
