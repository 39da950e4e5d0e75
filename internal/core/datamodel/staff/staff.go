// Package staff holds the persisted shape of nominal-roll entries, used by
// the stub gateway's database.
package staff

import "time"

type Record struct {
	ID                     string     `gorm:"primaryKey;size:36" json:"id"`
	FullName               string     `gorm:"size:255;not null" json:"full_name"`
	Rank                   string     `gorm:"size:100" json:"rank"`
	GradeLevel             int        `json:"grade_level"`
	Step                   int        `json:"step"`
	Department             string     `gorm:"size:255" json:"department"`
	LGA                    string     `gorm:"size:100" json:"lga"`
	Office                 string     `gorm:"size:255" json:"office"`
	Phone                  string     `gorm:"size:50" json:"phone"`
	Status                 string     `gorm:"size:50;not null" json:"status"`
	DateOfBirth            time.Time  `json:"date_of_birth"`
	FirstAppointmentDate   time.Time  `json:"first_appointment_date"`
	ExpectedRetirementDate time.Time  `json:"expected_retirement_date"`
	LeaveEndDate           *time.Time `json:"leave_end_date,omitempty"`
	PromotionDue           bool       `json:"promotion_due"`
	TimeOffDue             bool       `json:"time_off_due"`
	RetirementDue          bool       `json:"retirement_due"`
	Remarks                string     `gorm:"type:text" json:"remarks"`
	CreatedAt              time.Time  `json:"-"`
	UpdatedAt              time.Time  `json:"-"`
}

func (Record) TableName() string {
	return "staff_records"
}
