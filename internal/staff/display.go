package staff

import (
	"strings"
	"time"
	"unicode"
)

// Badge is the label/variant pair the UI renders for a status chip.
type Badge struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

func StatusBadge(s Status) Badge {
	switch s {
	case StatusActive:
		return Badge{Label: "Active", Variant: "success"}
	case StatusOnLeave:
		return Badge{Label: "On Leave", Variant: "warning"}
	case StatusRetired:
		return Badge{Label: "Retired", Variant: "secondary"}
	case StatusResigned:
		return Badge{Label: "Resigned", Variant: "secondary"}
	case StatusDismissed:
		return Badge{Label: "Dismissed", Variant: "danger"}
	case StatusOnSpecialDuty:
		return Badge{Label: "Special Duty", Variant: "info"}
	}
	return Badge{Label: "Unknown", Variant: "secondary"}
}

// YearsOfService counts completed calendar years since first appointment.
func YearsOfService(appointed time.Time) int {
	return YearsOfServiceAt(appointed, time.Now())
}

// YearsOfServiceAt floors to completed years: the anniversary day itself
// counts, the day before does not. Never negative.
func YearsOfServiceAt(appointed, now time.Time) int {
	years := now.Year() - appointed.Year()
	anniversary := time.Date(now.Year(), appointed.Month(), appointed.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// DaysUntilLeaveEnd counts whole days until the leave end date. Leave that
// already ended reports 0, never a negative number.
func DaysUntilLeaveEnd(end time.Time) int {
	return DaysUntilLeaveEndAt(end, time.Now())
}

// DaysUntilLeaveEndAt is DaysUntilLeaveEnd with an explicit reference time.
func DaysUntilLeaveEndAt(end, now time.Time) int {
	d := daysBetween(now, end)
	if d < 0 {
		return 0
	}
	return d
}

// FormatPhone pretty-prints Nigerian phone numbers. Inputs it does not
// recognize come back unchanged.
func FormatPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 11 && d[0] == '0':
		return d[:4] + " " + d[4:7] + " " + d[7:]
	case len(d) == 13 && strings.HasPrefix(d, "234"):
		return "+234 " + d[3:6] + " " + d[6:9] + " " + d[9:]
	}
	return phone
}

// Initials returns up to two uppercase initials from a full name.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	for i, f := range fields {
		if i == 2 {
			break
		}
		r := []rune(f)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}
