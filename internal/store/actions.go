package store

import (
	"github.com/budgetoffice/staff-portal/internal/navigation"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// Action is one state transition intent. Every mutation of the store goes
// through Dispatch with one of the concrete types below.
type Action interface {
	name() string
}

// LoginSuccess installs an authenticated session. The gateway call happens
// before this is dispatched; the action only assigns state.
type LoginSuccess struct {
	User  users.User
	Token string
}

// Logout resets the whole state to initial defaults with the home page.
type Logout struct{}

type SetPage struct {
	Page navigation.Page
}

type SetOffice struct {
	Office string
}

type SetSearchTerm struct {
	Term string
}

type SetFilter struct {
	Key staff.FilterKey
}

// SetStaffData replaces the raw nominal roll. The derived view resets to the
// full list before the derivation pass narrows it.
type SetStaffData struct {
	Records []staff.Record
}

// SetAllUsers is a full replacement of the admin user list, no merging.
type SetAllUsers struct {
	Users []users.User
}

// RemoveUser drops a user from the local list only. Rejection never deletes
// anything on the backend.
type RemoveUser struct {
	ID string
}

type SetLoading struct {
	Loading bool
}

// SetError records a user-visible error message and always stops the loading
// indicator. An empty message clears the error.
type SetError struct {
	Message string
}

func (LoginSuccess) name() string  { return "LOGIN_SUCCESS" }
func (Logout) name() string        { return "LOGOUT" }
func (SetPage) name() string       { return "SET_PAGE" }
func (SetOffice) name() string     { return "SET_OFFICE" }
func (SetSearchTerm) name() string { return "SET_SEARCH_TERM" }
func (SetFilter) name() string     { return "SET_FILTER" }
func (SetStaffData) name() string  { return "SET_STAFF_DATA" }
func (SetAllUsers) name() string   { return "SET_ALL_USERS" }
func (RemoveUser) name() string    { return "REMOVE_USER" }
func (SetLoading) name() string    { return "SET_LOADING" }
func (SetError) name() string      { return "SET_ERROR" }
