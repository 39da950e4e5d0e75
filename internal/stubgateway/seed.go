package stubgateway

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	staffDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/staff"
	userDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/user"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

type seedAccount struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Role       users.Role
	Department string
}

var seedAccounts = []seedAccount{
	{"Adaeze", "Okonkwo", "director@budgetoffice.gov.ng", "director123", users.RoleOrganizationHead, "Office of the Director-General"},
	{"Chinedu", "Balogun", "ict@budgetoffice.gov.ng", "icthead123", users.RoleICTHead, "ICT Department"},
	{"Fatima", "Suleiman", "staff@budgetoffice.gov.ng", "staff1234", users.RoleStaff, "Budget Monitoring"},
}

// Seed populates the stub gateway database with demo accounts and a small
// nominal roll. Existing rows are left alone so it is safe to run twice.
func Seed(db *gorm.DB, bcryptCost int) error {
	repo := NewRepository(db)

	for _, acc := range seedAccounts {
		if _, err := repo.GetUserByEmail(acc.Email); err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", acc.Email, err)
		}

		u := &userDatamodel.User{
			ID:           uuid.NewString(),
			FirstName:    acc.FirstName,
			LastName:     acc.LastName,
			Email:        acc.Email,
			PasswordHash: string(hash),
			Role:         string(acc.Role),
			Status:       string(users.StatusActive),
			Department:   acc.Department,
		}
		if err := repo.CreateUser(u); err != nil {
			return fmt.Errorf("seed user %s: %w", acc.Email, err)
		}
	}

	existing, err := repo.ListStaffRecords()
	if err != nil {
		return fmt.Errorf("check staff records: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, rec := range seedStaff() {
		rec := rec
		if err := repo.CreateStaffRecord(&rec); err != nil {
			return fmt.Errorf("seed staff %s: %w", rec.FullName, err)
		}
	}

	return nil
}

func seedStaff() []staffDatamodel.Record {
	now := time.Now()
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	daysFromNow := func(n int) *time.Time {
		t := now.AddDate(0, 0, n)
		return &t
	}

	return []staffDatamodel.Record{
		{
			ID: uuid.NewString(), FullName: "Ngozi Adewale", Rank: "Director of Budget",
			GradeLevel: 17, Step: 6, Department: "Budget Preparation", LGA: "Akure South",
			Office: "Headquarters", Phone: "08031234567", Status: string(staff.StatusActive),
			DateOfBirth: date(1970, time.March, 14), FirstAppointmentDate: date(1995, time.June, 1),
			ExpectedRetirementDate: date(2030, time.March, 14), RetirementDue: true,
			Remarks: "due for pre-retirement documentation",
		},
		{
			ID: uuid.NewString(), FullName: "Ibrahim Yusuf", Rank: "Principal Budget Officer",
			GradeLevel: 14, Step: 3, Department: "Budget Monitoring", LGA: "Ondo West",
			Office: "Headquarters", Phone: "08049876543", Status: string(staff.StatusActive),
			DateOfBirth: date(1982, time.August, 2), FirstAppointmentDate: date(2008, time.January, 15),
			ExpectedRetirementDate: date(2042, time.August, 2), PromotionDue: true,
			Remarks: "promotion interview scheduled",
		},
		{
			ID: uuid.NewString(), FullName: "Blessing Ojo", Rank: "Senior Accountant",
			GradeLevel: 12, Step: 5, Department: "Finance and Accounts", LGA: "Owo",
			Office: "Annex Block B", Phone: "2348061112233", Status: string(staff.StatusOnLeave),
			DateOfBirth: date(1985, time.November, 20), FirstAppointmentDate: date(2010, time.September, 6),
			ExpectedRetirementDate: date(2045, time.November, 20), LeaveEndDate: daysFromNow(4),
			Remarks: "annual leave",
		},
		{
			ID: uuid.NewString(), FullName: "Tunde Bakare", Rank: "Budget Analyst II",
			GradeLevel: 9, Step: 2, Department: "Budget Preparation", LGA: "Akoko North-East",
			Office: "Headquarters", Phone: "08152223344", Status: string(staff.StatusOnLeave),
			DateOfBirth: date(1990, time.February, 9), FirstAppointmentDate: date(2016, time.April, 4),
			ExpectedRetirementDate: date(2050, time.February, 9), LeaveEndDate: daysFromNow(30),
			TimeOffDue: true, Remarks: "study leave",
		},
		{
			ID: uuid.NewString(), FullName: "Amina Garba", Rank: "Chief Executive Officer (Accounts)",
			GradeLevel: 14, Step: 8, Department: "Finance and Accounts", LGA: "Ondo East",
			Office: "Annex Block A", Phone: "07033445566", Status: string(staff.StatusOnSpecialDuty),
			DateOfBirth: date(1975, time.July, 30), FirstAppointmentDate: date(2000, time.March, 1),
			ExpectedRetirementDate: date(2035, time.July, 30),
			Remarks: "seconded to the Governor's office",
		},
		{
			ID: uuid.NewString(), FullName: "Samuel Eze", Rank: "Assistant Chief Planning Officer",
			GradeLevel: 13, Step: 4, Department: "Planning, Research and Statistics", LGA: "Idanre",
			Office: "Headquarters", Phone: "08097778899", Status: string(staff.StatusActive),
			DateOfBirth: date(1980, time.May, 17), FirstAppointmentDate: date(2006, time.October, 2),
			ExpectedRetirementDate: date(2040, time.May, 17), TimeOffDue: true,
			Remarks: "leave bond pending",
		},
		{
			ID: uuid.NewString(), FullName: "Grace Adeyemi", Rank: "Higher Executive Officer",
			GradeLevel: 8, Step: 6, Department: "Administration", LGA: "Akure North",
			Office: "Headquarters", Phone: "08124445566", Status: string(staff.StatusRetired),
			DateOfBirth: date(1962, time.January, 5), FirstAppointmentDate: date(1988, time.July, 18),
			ExpectedRetirementDate: date(2022, time.January, 5),
			Remarks: "pension documentation complete",
		},
		{
			ID: uuid.NewString(), FullName: "Kunle Oladipo", Rank: "Budget Analyst I",
			GradeLevel: 10, Step: 1, Department: "Budget Monitoring", LGA: "Ile-Oluji/Okeigbo",
			Office: "Annex Block B", Phone: "09015556677", Status: string(staff.StatusResigned),
			DateOfBirth: date(1988, time.December, 25), FirstAppointmentDate: date(2014, time.February, 10),
			ExpectedRetirementDate: date(2048, time.December, 25),
			Remarks: "resigned for private sector role",
		},
		{
			ID: uuid.NewString(), FullName: "Halima Bello", Rank: "Executive Officer",
			GradeLevel: 7, Step: 3, Department: "Administration", LGA: "Ose",
			Office: "Headquarters", Phone: "08187779900", Status: string(staff.StatusDismissed),
			DateOfBirth: date(1992, time.April, 11), FirstAppointmentDate: date(2018, time.November, 5),
			ExpectedRetirementDate: date(2052, time.April, 11),
			Remarks: "dismissed following disciplinary panel",
		},
		{
			ID: uuid.NewString(), FullName: "Peter Akintola", Rank: "Chief Budget Officer",
			GradeLevel: 15, Step: 2, Department: "Budget Preparation", LGA: "Ondo West",
			Office: "Headquarters", Phone: "08068881122", Status: string(staff.StatusActive),
			DateOfBirth: date(1973, time.September, 3), FirstAppointmentDate: date(1998, time.May, 20),
			ExpectedRetirementDate: date(2033, time.September, 3), PromotionDue: true, RetirementDue: true,
			Remarks: "awaiting promotion board ratification",
		},
	}
}
