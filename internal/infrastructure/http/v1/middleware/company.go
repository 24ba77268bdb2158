package middleware

import (
	"github.com/gin-gonic/gin"

	"facture/internal/core/apperror"
	"facture/internal/core/appctx"
	"facture/internal/core/id"
)

// CompanyHeader is the HTTP header carrying the active company.
const CompanyHeader = "X-Company-ID"

// Company middleware resolves the active company from the X-Company-ID
// header and injects it into the request context. Every tenant-scoped
// query downstream filters by this company.
//
// Must run AFTER Auth: the company is checked against the memberships
// carried in the token.
func Company() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CompanyHeader)
		if raw == "" {
			_ = c.Error(
				apperror.NewValidation("company is required").
					WithDetail("header", CompanyHeader),
			)
			c.Abort()
			return
		}

		companyID, err := id.Parse(raw)
		if err != nil {
			_ = c.Error(
				apperror.NewValidation("invalid company id").
					WithDetail("header", CompanyHeader).
					WithDetail("value", raw),
			)
			c.Abort()
			return
		}

		if !appctx.HasCompanyAccess(c.Request.Context(), companyID.String()) {
			_ = c.Error(
				apperror.NewForbidden("no access to company").
					WithDetail("company_id", companyID.String()),
			)
			c.Abort()
			return
		}

		ctx := appctx.WithCompany(c.Request.Context(), companyID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("company_id", companyID.String())

		c.Next()
	}
}
