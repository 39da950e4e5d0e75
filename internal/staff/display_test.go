package staff_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/budgetoffice/staff-portal/internal/staff"
)

var _ = Describe("StatusBadge", func() {
	It("maps each status to its label and variant", func() {
		Expect(staff.StatusBadge(staff.StatusActive)).To(Equal(staff.Badge{Label: "Active", Variant: "success"}))
		Expect(staff.StatusBadge(staff.StatusOnLeave)).To(Equal(staff.Badge{Label: "On Leave", Variant: "warning"}))
		Expect(staff.StatusBadge(staff.StatusDismissed)).To(Equal(staff.Badge{Label: "Dismissed", Variant: "danger"}))
		Expect(staff.StatusBadge(staff.StatusOnSpecialDuty)).To(Equal(staff.Badge{Label: "Special Duty", Variant: "info"}))
	})

	It("falls back to Unknown for unrecognized statuses", func() {
		Expect(staff.StatusBadge(staff.Status("garbage"))).To(Equal(staff.Badge{Label: "Unknown", Variant: "secondary"}))
	})
})

var _ = Describe("YearsOfServiceAt", func() {
	appointed := date(2010, time.September, 6)

	It("counts completed years before the anniversary", func() {
		Expect(staff.YearsOfServiceAt(appointed, date(2025, time.September, 5))).To(Equal(14))
	})

	It("counts the anniversary day itself", func() {
		Expect(staff.YearsOfServiceAt(appointed, date(2025, time.September, 6))).To(Equal(15))
	})

	It("never goes negative for future appointments", func() {
		Expect(staff.YearsOfServiceAt(date(2030, time.January, 1), date(2025, time.June, 15))).To(Equal(0))
	})
})

var _ = Describe("DaysUntilLeaveEndAt", func() {
	now := date(2025, time.June, 15)

	It("counts whole days to a future end date", func() {
		Expect(staff.DaysUntilLeaveEndAt(now.AddDate(0, 0, 4), now)).To(Equal(4))
	})

	It("reports zero for leave ending today", func() {
		Expect(staff.DaysUntilLeaveEndAt(now, now)).To(Equal(0))
	})

	It("clamps leave that already ended to zero", func() {
		Expect(staff.DaysUntilLeaveEndAt(now.AddDate(0, 0, -10), now)).To(Equal(0))
	})

	It("ignores the time of day on both ends", func() {
		end := time.Date(2025, time.June, 17, 1, 0, 0, 0, time.UTC)
		at := time.Date(2025, time.June, 15, 23, 30, 0, 0, time.UTC)
		Expect(staff.DaysUntilLeaveEndAt(end, at)).To(Equal(2))
	})
})

var _ = Describe("FormatPhone", func() {
	It("formats 11-digit local numbers", func() {
		Expect(staff.FormatPhone("08031234567")).To(Equal("0803 123 4567"))
	})

	It("formats 13-digit international numbers", func() {
		Expect(staff.FormatPhone("2348061112233")).To(Equal("+234 806 111 2233"))
	})

	It("strips separators before formatting", func() {
		Expect(staff.FormatPhone("0803-123-4567")).To(Equal("0803 123 4567"))
	})

	It("returns unrecognized inputs unchanged", func() {
		Expect(staff.FormatPhone("12345")).To(Equal("12345"))
		Expect(staff.FormatPhone("")).To(Equal(""))
	})
})

var _ = Describe("Initials", func() {
	It("takes the first letter of the first two names", func() {
		Expect(staff.Initials("Ngozi Adewale")).To(Equal("NA"))
	})

	It("uppercases lowercase names", func() {
		Expect(staff.Initials("ngozi adewale")).To(Equal("NA"))
	})

	It("ignores names past the second", func() {
		Expect(staff.Initials("Ngozi Chiamaka Adewale")).To(Equal("NC"))
	})

	It("handles single names and blanks", func() {
		Expect(staff.Initials("Ngozi")).To(Equal("N"))
		Expect(staff.Initials("   ")).To(Equal(""))
	})
})
