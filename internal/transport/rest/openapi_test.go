package rest_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents every mounted route", func() {
		for _, path := range []string{
			"/health", "/session", "/state",
			"/password/forgot", "/password/reset",
			"/staff", "/staff/refresh", "/staff/stats", "/staff/counts", "/staff/export",
			"/users", "/users/{id}/approve", "/users/{id}",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})
})
