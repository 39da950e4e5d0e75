package gateway_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/budgetoffice/staff-portal/internal/gateway"
	"github.com/budgetoffice/staff-portal/internal/users"
)

func TestGatewayClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Client Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("HTTPClient", func() {
	var (
		server  *httptest.Server
		client  *gateway.HTTPClient
		lastReq *http.Request
		respond func(w http.ResponseWriter, r *http.Request)
		ctx     context.Context
	)

	newClient := func(apiKey string) *gateway.HTTPClient {
		return gateway.NewHTTPClient(gateway.Config{
			BaseURL:        server.URL,
			APIKey:         apiKey,
			RequestTimeout: 2 * time.Second,
		}, testLogger())
	}

	BeforeEach(func() {
		ctx = context.Background()
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			respond(w, r)
		}))
		client = newClient("")
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Login", func() {
		Context("when the backend accepts", func() {
			BeforeEach(func() {
				respond = func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": true,
						"data": map[string]interface{}{
							"user": map[string]interface{}{
								"id":    "u1",
								"email": "director@budgetoffice.gov.ng",
								"role":  "ORGANIZATION_HEAD",
							},
							"token": "tok-1",
						},
					})
				}
			})

			It("unwraps the envelope into a login result", func() {
				result, err := client.Login(ctx, "director@budgetoffice.gov.ng", "pw")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Token).To(Equal("tok-1"))
				Expect(result.User.Role).To(Equal(users.RoleOrganizationHead))
			})

			It("posts to the login path without a bearer token", func() {
				client.Login(ctx, "director@budgetoffice.gov.ng", "pw")
				Expect(lastReq.Method).To(Equal(http.MethodPost))
				Expect(lastReq.URL.Path).To(Equal("/auth/login"))
				Expect(lastReq.Header.Get("Authorization")).To(BeEmpty())
			})
		})

		Context("when the backend rejects", func() {
			BeforeEach(func() {
				respond = func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"message": "Invalid email or password",
					})
				}
			})

			It("returns an APIError carrying the server message", func() {
				_, err := client.Login(ctx, "director@budgetoffice.gov.ng", "wrong")
				apiErr, ok := gateway.IsAPIError(err)
				Expect(ok).To(BeTrue())
				Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(apiErr.Message).To(Equal("Invalid email or password"))
			})
		})

		Context("when the response carries success=false with status 200", func() {
			BeforeEach(func() {
				respond = func(w http.ResponseWriter, r *http.Request) {
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"message": "Account is not active",
					})
				}
			})

			It("still reports an APIError", func() {
				_, err := client.Login(ctx, "pending@budgetoffice.gov.ng", "pw")
				apiErr, ok := gateway.IsAPIError(err)
				Expect(ok).To(BeTrue())
				Expect(apiErr.Message).To(Equal("Account is not active"))
			})
		})

		Context("when the body is not an envelope", func() {
			BeforeEach(func() {
				respond = func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadGateway)
					w.Write([]byte("<html>bad gateway</html>"))
				}
			})

			It("falls back to a bare status APIError", func() {
				_, err := client.Login(ctx, "x", "y")
				apiErr, ok := gateway.IsAPIError(err)
				Expect(ok).To(BeTrue())
				Expect(apiErr.StatusCode).To(Equal(http.StatusBadGateway))
				Expect(apiErr.Message).To(BeEmpty())
			})
		})
	})

	Describe("authenticated calls", func() {
		BeforeEach(func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": true,
					"data":    []interface{}{},
				})
			}
		})

		It("sends the bearer token", func() {
			_, err := client.GetNominalRoll(ctx, "tok-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(lastReq.URL.Path).To(Equal("/staff/nominal-roll"))
			Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer tok-1"))
		})

		It("sends the API key when configured", func() {
			client = newClient("key-123")
			client.GetAllUsers(ctx, "tok-1")
			Expect(lastReq.Header.Get("X-API-Key")).To(Equal("key-123"))
		})
	})

	Describe("ApproveUser", func() {
		BeforeEach(func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			}
		})

		It("patches the user's approve path", func() {
			err := client.ApproveUser(ctx, "tok-1", "u-42")
			Expect(err).NotTo(HaveOccurred())
			Expect(lastReq.Method).To(Equal(http.MethodPatch))
			Expect(lastReq.URL.Path).To(Equal("/users/u-42/approve"))
		})
	})

	Describe("CreateUser", func() {
		BeforeEach(func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": true,
					"data":    map[string]interface{}{"id": "u-new"},
				})
			}
		})

		It("posts the DTO as JSON", func() {
			dto := users.CreateUserDTO{
				FirstName: "New", LastName: "User",
				Email: "new@budgetoffice.gov.ng", Role: users.RoleStaff,
			}
			Expect(client.CreateUser(ctx, "tok-1", dto)).To(Succeed())
			Expect(lastReq.Header.Get("Content-Type")).To(Equal("application/json"))
		})
	})

	Describe("context cancellation", func() {
		BeforeEach(func() {
			respond = func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			}
		})

		It("aborts the call when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := client.GetProfile(cancelled, "tok-1")
			Expect(err).To(HaveOccurred())
		})
	})
})
