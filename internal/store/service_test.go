package store_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/budgetoffice/staff-portal/internal/gateway"
	"github.com/budgetoffice/staff-portal/internal/navigation"
	"github.com/budgetoffice/staff-portal/internal/session"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/store"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// MockGateway implements gateway.Client for testing
type MockGateway struct {
	loginResult   *gateway.LoginResult
	loginErr      error
	profile       *users.User
	profileErr    error
	roll          []staff.Record
	rollErr       error
	userList      []users.User
	userListErr   error
	createErr     error
	approveErr    error
	forgotErr     error
	resetErr      error
	logoutCalls   int
	approveCalls  []string
	createdDTOs   []users.CreateUserDTO
	rollCallCount int

	// invoked while the fetch is in flight, before the result is returned
	onRollFetch     func()
	onUserListFetch func()
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (*gateway.LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *MockGateway) GetProfile(ctx context.Context, token string) (*users.User, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *MockGateway) GetNominalRoll(ctx context.Context, token string) ([]staff.Record, error) {
	m.rollCallCount++
	if m.onRollFetch != nil {
		m.onRollFetch()
	}
	if m.rollErr != nil {
		return nil, m.rollErr
	}
	return m.roll, nil
}

func (m *MockGateway) GetAllUsers(ctx context.Context, token string) ([]users.User, error) {
	if m.onUserListFetch != nil {
		m.onUserListFetch()
	}
	if m.userListErr != nil {
		return nil, m.userListErr
	}
	return m.userList, nil
}

func (m *MockGateway) CreateUser(ctx context.Context, token string, dto users.CreateUserDTO) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdDTOs = append(m.createdDTOs, dto)
	return nil
}

func (m *MockGateway) ApproveUser(ctx context.Context, token, userID string) error {
	if m.approveErr != nil {
		return m.approveErr
	}
	m.approveCalls = append(m.approveCalls, userID)
	return nil
}

func (m *MockGateway) ForgotPassword(ctx context.Context, email string) error {
	return m.forgotErr
}

func (m *MockGateway) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.resetErr
}

func (m *MockGateway) Logout(ctx context.Context, token string) error {
	m.logoutCalls++
	return nil
}

// MockCredentialStore implements session.CredentialStore in memory
type MockCredentialStore struct {
	token   string
	saveErr error
	loadErr error
}

func (m *MockCredentialStore) Save(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *MockCredentialStore) Load() (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if m.token == "" {
		return "", session.ErrNoCredentials
	}
	return m.token, nil
}

func (m *MockCredentialStore) Clear() error {
	m.token = ""
	return nil
}

var _ = Describe("Service", func() {
	var (
		st    *store.Store
		gw    *MockGateway
		creds *MockCredentialStore
		svc   *store.Service
		ctx   context.Context
	)

	BeforeEach(func() {
		st = newTestStore()
		gw = NewMockGateway()
		creds = &MockCredentialStore{}
		svc = store.NewService(st, gw, creds, testLogger())
		ctx = context.Background()
	})

	Describe("SignIn", func() {
		Context("when the gateway accepts the credentials", func() {
			BeforeEach(func() {
				gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
				gw.roll = testRoll()
				gw.userList = []users.User{director()}
			})

			It("installs the session and lands on the dashboard", func() {
				Expect(svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")).To(BeTrue())

				snap := st.Snapshot()
				Expect(snap.IsAuthenticated).To(BeTrue())
				Expect(snap.CurrentPage).To(Equal(navigation.PageDirectorDashboard))
				Expect(snap.IsLoading).To(BeFalse())
				Expect(snap.Error).To(BeEmpty())
			})

			It("persists the token", func() {
				svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
				Expect(creds.token).To(Equal("tok-1"))
			})

			It("loads the nominal roll and the user list for admins", func() {
				svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")

				snap := st.Snapshot()
				Expect(snap.StaffData).To(HaveLen(3))
				Expect(snap.AllUsers).To(HaveLen(1))
			})

			It("still signs in when persisting the token fails", func() {
				creds.saveErr = errors.New("disk full")
				Expect(svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")).To(BeTrue())
				Expect(st.Snapshot().IsAuthenticated).To(BeTrue())
			})
		})

		Context("for a regular staff account", func() {
			BeforeEach(func() {
				staffUser := director()
				staffUser.ID = "u-staff"
				staffUser.Role = users.RoleStaff
				gw.loginResult = &gateway.LoginResult{User: staffUser, Token: "tok-2"}
				gw.roll = testRoll()
				gw.userList = []users.User{director()}
			})

			It("loads the roll but never the user list", func() {
				Expect(svc.SignIn(ctx, "staff@budgetoffice.gov.ng", "staff1234")).To(BeTrue())

				snap := st.Snapshot()
				Expect(snap.CurrentPage).To(Equal(navigation.PageStaffDashboard))
				Expect(snap.StaffData).To(HaveLen(3))
				Expect(snap.AllUsers).To(BeEmpty())
			})
		})

		Context("when the gateway rejects the credentials", func() {
			BeforeEach(func() {
				gw.loginErr = &gateway.APIError{StatusCode: 401, Message: "Invalid email or password"}
			})

			It("surfaces the server's own message", func() {
				Expect(svc.SignIn(ctx, "director@budgetoffice.gov.ng", "wrong")).To(BeFalse())

				snap := st.Snapshot()
				Expect(snap.IsAuthenticated).To(BeFalse())
				Expect(snap.Error).To(Equal("Invalid email or password"))
				Expect(snap.IsLoading).To(BeFalse())
			})
		})

		Context("when the gateway is unreachable", func() {
			BeforeEach(func() {
				gw.loginErr = errors.New("connection refused")
			})

			It("falls back to the generic message", func() {
				Expect(svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")).To(BeFalse())
				Expect(st.Snapshot().Error).To(Equal("Unable to sign in. Please try again."))
			})
		})
	})

	Describe("SignOut", func() {
		BeforeEach(func() {
			gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
			gw.roll = testRoll()
			svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
		})

		It("clears the persisted token and resets the state", func() {
			svc.SignOut(ctx)

			Expect(creds.token).To(BeEmpty())
			Expect(st.Snapshot()).To(Equal(store.InitialState()))
		})
	})

	Describe("CheckAuthentication", func() {
		Context("with no persisted credentials", func() {
			It("reports false and leaves the state untouched", func() {
				Expect(svc.CheckAuthentication(ctx)).To(BeFalse())
				Expect(st.Snapshot()).To(Equal(store.InitialState()))
			})
		})

		Context("with a persisted token the gateway still accepts", func() {
			BeforeEach(func() {
				creds.token = "tok-persisted"
				profile := director()
				gw.profile = &profile
				gw.roll = testRoll()
				gw.userList = []users.User{director()}
			})

			It("restores the session without a fresh login", func() {
				Expect(svc.CheckAuthentication(ctx)).To(BeTrue())

				snap := st.Snapshot()
				Expect(snap.IsAuthenticated).To(BeTrue())
				Expect(snap.Token).To(Equal("tok-persisted"))
				Expect(snap.CurrentPage).To(Equal(navigation.PageDirectorDashboard))
				Expect(snap.StaffData).To(HaveLen(3))
			})
		})

		Context("with a token the gateway rejects", func() {
			BeforeEach(func() {
				creds.token = "tok-dead"
				gw.profileErr = &gateway.APIError{StatusCode: 401, Message: "Invalid token"}
			})

			It("clears everything and ends at the initial state", func() {
				Expect(svc.CheckAuthentication(ctx)).To(BeFalse())
				Expect(creds.token).To(BeEmpty())
				Expect(st.Snapshot()).To(Equal(store.InitialState()))
			})
		})
	})

	Describe("LoadNominalRoll", func() {
		Context("without a session", func() {
			It("refuses and sets an error", func() {
				Expect(svc.LoadNominalRoll(ctx)).To(BeFalse())
				Expect(st.Snapshot().Error).To(Equal("No active session"))
			})
		})

		Context("with a session", func() {
			BeforeEach(func() {
				gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
				gw.roll = testRoll()
				gw.userList = nil
				svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
			})

			It("replaces the staff data and the derived view", func() {
				gw.roll = testRoll()[:1]
				Expect(svc.LoadNominalRoll(ctx)).To(BeTrue())

				snap := st.Snapshot()
				Expect(snap.StaffData).To(HaveLen(1))
				Expect(snap.FilteredStaff).To(HaveLen(1))
			})

			It("keeps the previous data when the gateway fails", func() {
				gw.rollErr = errors.New("timeout")
				Expect(svc.LoadNominalRoll(ctx)).To(BeFalse())

				snap := st.Snapshot()
				Expect(snap.StaffData).To(HaveLen(3))
				Expect(snap.Error).To(Equal("Unable to load the nominal roll."))
			})
		})

		Context("when a sign-out lands while the fetch is in flight", func() {
			BeforeEach(func() {
				gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
				gw.roll = testRoll()
				gw.userList = nil
				svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
				gw.onRollFetch = func() { st.Dispatch(store.Logout{}) }
			})

			It("discards the stale response and reports false", func() {
				Expect(svc.LoadNominalRoll(ctx)).To(BeFalse())

				snap := st.Snapshot()
				Expect(snap.StaffData).To(BeEmpty())
				Expect(snap.FilteredStaff).To(BeEmpty())
			})

			It("does not blame the new session for the stale failure", func() {
				gw.rollErr = errors.New("timeout")
				Expect(svc.LoadNominalRoll(ctx)).To(BeFalse())
				Expect(st.Snapshot().Error).To(BeEmpty())
			})
		})
	})

	Describe("LoadAllUsers", func() {
		BeforeEach(func() {
			gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
			gw.roll = testRoll()
			gw.userList = []users.User{director()}
			svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
		})

		It("discards a list that was fetched for a previous session", func() {
			replacement := director()
			replacement.ID = "u-next"
			gw.onUserListFetch = func() {
				st.Dispatch(store.Logout{})
				st.Dispatch(store.LoginSuccess{User: replacement, Token: "tok-next"})
			}

			stale := director()
			stale.ID = "u-stale"
			gw.userList = []users.User{stale, director()}

			Expect(svc.LoadAllUsers(ctx)).To(BeFalse())
			Expect(st.Snapshot().AllUsers).To(BeEmpty())
		})
	})

	Describe("CreateUser", func() {
		validDTO := users.CreateUserDTO{
			FirstName: "New",
			LastName:  "User",
			Email:     "new@budgetoffice.gov.ng",
			Role:      users.RoleStaff,
		}

		BeforeEach(func() {
			gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
			gw.roll = testRoll()
			gw.userList = []users.User{director()}
			svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
		})

		It("submits the account and reloads the list from the gateway", func() {
			created := director()
			created.ID = "u-new"
			gw.userList = []users.User{director(), created}

			Expect(svc.CreateUser(ctx, validDTO)).To(BeTrue())
			Expect(gw.createdDTOs).To(HaveLen(1))
			Expect(st.Snapshot().AllUsers).To(HaveLen(2))
		})

		It("rejects an invalid DTO before calling the gateway", func() {
			bad := validDTO
			bad.Email = ""

			Expect(svc.CreateUser(ctx, bad)).To(BeFalse())
			Expect(gw.createdDTOs).To(BeEmpty())
			Expect(st.Snapshot().Error).NotTo(BeEmpty())
		})

		It("surfaces the server message on rejection", func() {
			gw.createErr = &gateway.APIError{StatusCode: 409, Message: "Email already registered"}

			Expect(svc.CreateUser(ctx, validDTO)).To(BeFalse())
			Expect(st.Snapshot().Error).To(Equal("Email already registered"))
		})
	})

	Describe("ApproveUser", func() {
		BeforeEach(func() {
			gw.loginResult = &gateway.LoginResult{User: director(), Token: "tok-1"}
			gw.roll = testRoll()
			gw.userList = []users.User{{ID: "u-pending", Status: users.StatusPendingApproval}}
			svc.SignIn(ctx, "director@budgetoffice.gov.ng", "director123")
		})

		It("approves on the gateway and reloads the list", func() {
			approved := users.User{ID: "u-pending", Status: users.StatusApprovedPendingActivation}
			gw.userList = []users.User{approved}

			Expect(svc.ApproveUser(ctx, "u-pending")).To(BeTrue())
			Expect(gw.approveCalls).To(ConsistOf("u-pending"))
			Expect(st.Snapshot().AllUsers[0].Status).To(Equal(users.StatusApprovedPendingActivation))
		})

		It("keeps the list unchanged and surfaces the message on failure", func() {
			gw.approveErr = &gateway.APIError{StatusCode: 409, Message: "User is not pending approval"}

			Expect(svc.ApproveUser(ctx, "u-pending")).To(BeFalse())

			snap := st.Snapshot()
			Expect(snap.Error).To(Equal("User is not pending approval"))
			Expect(snap.AllUsers).To(HaveLen(1))
			Expect(snap.AllUsers[0].Status).To(Equal(users.StatusPendingApproval))
		})
	})

	Describe("RejectUser", func() {
		It("removes the user locally without touching the gateway", func() {
			st.Dispatch(store.SetAllUsers{Users: []users.User{{ID: "u1"}, {ID: "u2"}}})

			Expect(svc.RejectUser("u1")).To(BeTrue())

			snap := st.Snapshot()
			Expect(snap.AllUsers).To(HaveLen(1))
			Expect(snap.AllUsers[0].ID).To(Equal("u2"))
		})
	})

	Describe("password reset flow", func() {
		It("requests a reset", func() {
			Expect(svc.RequestPasswordReset(ctx, "director@budgetoffice.gov.ng")).To(BeTrue())
			Expect(st.Snapshot().IsLoading).To(BeFalse())
		})

		It("surfaces a rejected reset token", func() {
			gw.resetErr = &gateway.APIError{StatusCode: 400, Message: "Reset token is invalid or expired"}

			Expect(svc.ResetPassword(ctx, "bad-token", "newpassword1")).To(BeFalse())
			Expect(st.Snapshot().Error).To(Equal("Reset token is invalid or expired"))
		})
	})
})
