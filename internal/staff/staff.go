package staff

import (
	"strings"
	"time"
)

// Status is the employment state recorded on the nominal roll.
type Status string

const (
	StatusActive        Status = "active"
	StatusOnLeave       Status = "on-leave"
	StatusRetired       Status = "retired"
	StatusResigned      Status = "resigned"
	StatusDismissed     Status = "dismissed"
	StatusOnSpecialDuty Status = "on-special-duty"
)

// Record is one nominal-roll entry. Records come wholly from the gateway and
// are never mutated by the portal.
type Record struct {
	ID                     string     `json:"id"`
	FullName               string     `json:"full_name"`
	Rank                   string     `json:"rank"`
	GradeLevel             int        `json:"grade_level"`
	Step                   int        `json:"step"`
	Department             string     `json:"department"`
	LGA                    string     `json:"lga"`
	Office                 string     `json:"office,omitempty"`
	Phone                  string     `json:"phone,omitempty"`
	Status                 Status     `json:"status"`
	DateOfBirth            time.Time  `json:"date_of_birth"`
	FirstAppointmentDate   time.Time  `json:"first_appointment_date"`
	ExpectedRetirementDate time.Time  `json:"expected_retirement_date"`
	LeaveEndDate           *time.Time `json:"leave_end_date,omitempty"`
	PromotionDue           bool       `json:"promotion_due"`
	TimeOffDue             bool       `json:"time_off_due"`
	RetirementDue          bool       `json:"retirement_due"`
	Remarks                string     `json:"remarks,omitempty"`
}

// FilterKey selects a predicate over the nominal roll.
type FilterKey string

const (
	FilterAll                FilterKey = "all"
	FilterPromotionDue       FilterKey = "due-for-promotion"
	FilterTimeOffDue         FilterKey = "due-for-time-off"
	FilterOnLeave            FilterKey = "on-leave"
	FilterReturningFromLeave FilterKey = "returning-from-leave"
	FilterRetirementDue      FilterKey = "due-for-retirement"
	FilterRetired            FilterKey = "retired"
	FilterResigned           FilterKey = "resigned"
	FilterDismissed          FilterKey = "dismissed"
	FilterOnSpecialDuty      FilterKey = "on-special-duty"
)

// Legacy key spellings still accepted from older UI builds. Both spellings
// must keep working until the UI side confirms which one is retired.
var synonyms = map[FilterKey]FilterKey{
	"promotion-due":  FilterPromotionDue,
	"time-off-due":   FilterTimeOffDue,
	"retirement-due": FilterRetirementDue,
}

// Canonical resolves legacy synonym keys to their canonical spelling.
func (k FilterKey) Canonical() FilterKey {
	if c, ok := synonyms[k]; ok {
		return c
	}
	return k
}

// Known reports whether the key maps to a defined predicate, directly or via
// a synonym. Unknown keys still filter, through the remarks heuristic.
func (k FilterKey) Known() bool {
	if k == FilterAll {
		return true
	}
	_, ok := predicates[k.Canonical()]
	return ok
}

// returningLeaveWindowDays is the inclusive look-ahead for the
// returning-from-leave filter: leave ending today counts, day 7 counts,
// day 8 does not.
const returningLeaveWindowDays = 7

type predicateKind int

const (
	predFlag predicateKind = iota
	predStatus
	predComputed
	predHeuristic
)

// filterPredicate is a tagged union: exactly one of the variant fields is
// meaningful for a given kind. predHeuristic additionally matches the
// remarks free text and is best-effort, not an invariant the backend
// guarantees.
type filterPredicate struct {
	kind     predicateKind
	flag     func(*Record) bool
	status   Status
	computed func(*Record, time.Time) bool
	needle   string
}

var predicates = map[FilterKey]filterPredicate{
	FilterPromotionDue:  {kind: predFlag, flag: func(r *Record) bool { return r.PromotionDue }},
	FilterTimeOffDue:    {kind: predFlag, flag: func(r *Record) bool { return r.TimeOffDue }},
	FilterRetirementDue: {kind: predFlag, flag: func(r *Record) bool { return r.RetirementDue }},

	FilterOnLeave:   {kind: predStatus, status: StatusOnLeave},
	FilterRetired:   {kind: predStatus, status: StatusRetired},
	FilterResigned:  {kind: predStatus, status: StatusResigned},
	FilterDismissed: {kind: predStatus, status: StatusDismissed},

	FilterReturningFromLeave: {kind: predComputed, computed: returningFromLeave},

	FilterOnSpecialDuty: {kind: predHeuristic, status: StatusOnSpecialDuty, needle: "special duty"},
}

func returningFromLeave(r *Record, now time.Time) bool {
	if r.Status != StatusOnLeave || r.LeaveEndDate == nil {
		return false
	}
	d := daysBetween(now, *r.LeaveEndDate)
	return d >= 0 && d <= returningLeaveWindowDays
}

func (p filterPredicate) matches(r *Record, now time.Time) bool {
	switch p.kind {
	case predFlag:
		return p.flag(r)
	case predStatus:
		return r.Status == p.status
	case predComputed:
		return p.computed(r, now)
	case predHeuristic:
		if r.Status == p.status {
			return true
		}
		return strings.Contains(strings.ToLower(r.Remarks), p.needle)
	}
	return false
}

// daysBetween counts whole calendar days from a to b, negative when b is in
// the past. Both timestamps are truncated to their local calendar date first.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
