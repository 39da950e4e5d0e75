// Package store holds the portal's single source of truth: one reducer-driven
// state container plus the async operations layered on top of it.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/budgetoffice/staff-portal/internal/navigation"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// State is the full portal state. Snapshots are read-only: the slices they
// carry must not be mutated by readers.
type State struct {
	User            *users.User     `json:"user,omitempty"`
	Token           string          `json:"-"`
	IsAuthenticated bool            `json:"is_authenticated"`
	CurrentPage     navigation.Page `json:"current_page"`
	SelectedOffice  string          `json:"selected_office,omitempty"`
	StaffData       []staff.Record  `json:"staff_data"`
	FilteredStaff   []staff.Record  `json:"filtered_staff"`
	AllUsers        []users.User    `json:"all_users"`
	IsLoading       bool            `json:"is_loading"`
	Error           string          `json:"error,omitempty"`
	SearchTerm      string          `json:"search_term"`
	CurrentFilter   staff.FilterKey `json:"current_filter"`
}

func initialState() State {
	return State{
		CurrentPage:   navigation.PageHome,
		CurrentFilter: staff.FilterAll,
	}
}

// InitialState returns the defaults a fresh or signed-out store holds.
func InitialState() State {
	return initialState()
}

// Subscriber receives a state snapshot after every settled dispatch.
type Subscriber func(State)

// Store is an explicit, injectable state container. All access is through
// Dispatch and Snapshot; there is no package-level instance.
type Store struct {
	mu          sync.Mutex
	state       State
	epoch       int64
	subscribers []Subscriber
	logger      *slog.Logger
	now         func() time.Time
}

func New(logger *slog.Logger) *Store {
	return &Store{
		state:  initialState(),
		logger: logger,
		now:    time.Now,
	}
}

// NewAt is New with an injected clock for date-dependent derivation.
func NewAt(logger *slog.Logger, now func() time.Time) *Store {
	s := New(logger)
	if now != nil {
		s.now = now
	}
	return s
}

// Snapshot returns a copy of the current state safe to read concurrently.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Epoch identifies the current session generation. It advances on every
// login and logout, letting slow responses from a previous session be
// recognized and dropped.
func (s *Store) Epoch() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers fn to run after every dispatch. Subscribers run
// outside the store lock, in registration order.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch applies one action, recomputes the derived staff view when its
// inputs changed, and notifies subscribers with the settled snapshot.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()

	prev := s.state
	next := reduce(prev, action)

	// Derivation reacts to the three inputs, not to individual actions, so
	// no transition can forget to refresh the view.
	if derivationInputsChanged(prev, next) {
		next.FilteredStaff = staff.FilterAt(staff.Search(next.StaffData, next.SearchTerm), next.CurrentFilter, s.now())
	}

	switch action.(type) {
	case LoginSuccess, Logout:
		s.epoch++
	}

	s.state = next
	snapshot := cloneState(next)
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	s.logger.Debug("action dispatched",
		"action", action.name(),
		"page", snapshot.CurrentPage,
		"authenticated", snapshot.IsAuthenticated)

	for _, fn := range subs {
		fn(snapshot)
	}
}

// reduce is the pure transition function. It never touches the derived view
// beyond the resets the individual transitions require.
func reduce(st State, action Action) State {
	switch a := action.(type) {
	case LoginSuccess:
		u := a.User
		st.User = &u
		st.Token = a.Token
		st.IsAuthenticated = true
		st.Error = ""
		st.CurrentPage = navigation.LandingPage(a.User.Role)

	case Logout:
		st = initialState()
		st.CurrentPage = navigation.PageHome

	case SetPage:
		st.CurrentPage = a.Page

	case SetOffice:
		st.SelectedOffice = a.Office

	case SetSearchTerm:
		st.SearchTerm = a.Term

	case SetFilter:
		st.CurrentFilter = a.Key

	case SetStaffData:
		st.StaffData = a.Records
		st.FilteredStaff = a.Records

	case SetAllUsers:
		st.AllUsers = a.Users

	case RemoveUser:
		if len(st.AllUsers) > 0 {
			kept := make([]users.User, 0, len(st.AllUsers))
			for _, u := range st.AllUsers {
				if u.ID != a.ID {
					kept = append(kept, u)
				}
			}
			st.AllUsers = kept
		}

	case SetLoading:
		st.IsLoading = a.Loading

	case SetError:
		st.Error = a.Message
		st.IsLoading = false
	}

	return st
}

func derivationInputsChanged(prev, next State) bool {
	return !sameRecords(prev.StaffData, next.StaffData) ||
		!sameRecords(prev.FilteredStaff, next.FilteredStaff) ||
		prev.SearchTerm != next.SearchTerm ||
		prev.CurrentFilter != next.CurrentFilter
}

// sameRecords compares slice identity, not contents: SetStaffData always
// installs a new slice, so header identity is enough to detect replacement.
func sameRecords(a, b []staff.Record) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func cloneState(st State) State {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	st.StaffData = cloneRecords(st.StaffData)
	st.FilteredStaff = cloneRecords(st.FilteredStaff)
	if st.AllUsers != nil {
		st.AllUsers = append([]users.User(nil), st.AllUsers...)
	}
	return st
}

func cloneRecords(records []staff.Record) []staff.Record {
	if records == nil {
		return nil
	}
	return append([]staff.Record(nil), records...)
}
