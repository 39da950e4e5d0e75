package staff

import (
	"strings"
	"time"
)

// Search returns the records whose name, rank, department or LGA contains
// term, case-insensitively. A blank or whitespace-only term is a no-op and
// returns the input slice unchanged.
func Search(records []Record, term string) []Record {
	term = strings.TrimSpace(term)
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)

	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.FullName), needle) ||
			strings.Contains(strings.ToLower(r.Rank), needle) ||
			strings.Contains(strings.ToLower(r.Department), needle) ||
			strings.Contains(strings.ToLower(r.LGA), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Filter returns the records matching key, evaluated against the wall clock.
func Filter(records []Record, key FilterKey) []Record {
	return FilterAt(records, key, time.Now())
}

// FilterAt is Filter with an explicit reference time for date-based
// predicates. "all" is the identity and returns the input slice unchanged.
func FilterAt(records []Record, key FilterKey, now time.Time) []Record {
	key = key.Canonical()
	if key == FilterAll {
		return records
	}

	matched := make([]Record, 0, len(records))
	if p, ok := predicates[key]; ok {
		for i := range records {
			if p.matches(&records[i], now) {
				matched = append(matched, records[i])
			}
		}
		return matched
	}

	// Unknown key: best-effort fallback matching the remarks free text,
	// with hyphens read as spaces ("acting-capacity" finds "acting capacity").
	needle := strings.ToLower(strings.ReplaceAll(string(key), "-", " "))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Remarks), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

// FilterCount reports how many records match key. It delegates to Filter so
// the count can never drift from the list the UI shows.
func FilterCount(records []Record, key FilterKey) int {
	return len(Filter(records, key))
}

// FilterCountAt is FilterCount with an explicit reference time.
func FilterCountAt(records []Record, key FilterKey, now time.Time) int {
	return len(FilterAt(records, key, now))
}

// Stats are the dashboard headline numbers, aggregated in one pass.
type Stats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	OnLeave       int `json:"on_leave"`
	PromotionDue  int `json:"promotion_due"`
	RetirementDue int `json:"retirement_due"`
}

// Aggregate computes headline stats for a staff collection.
func Aggregate(records []Record) Stats {
	s := Stats{Total: len(records)}
	for i := range records {
		switch records[i].Status {
		case StatusActive:
			s.Active++
		case StatusOnLeave:
			s.OnLeave++
		}
		if records[i].PromotionDue {
			s.PromotionDue++
		}
		if records[i].RetirementDue {
			s.RetirementDue++
		}
	}
	return s
}
