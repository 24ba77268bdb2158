package appctx

import (
	"context"

	"facture/internal/core/id"
)

// Every tenant-scoped query is filtered by the company resolved from the
// request (X-Company-ID header). The company lives in its own context slot so
// that background jobs can set it without a fake user.

type companyContextKey struct{}

// WithCompany adds the active company ID to context.
func WithCompany(ctx context.Context, companyID id.ID) context.Context {
	return context.WithValue(ctx, companyContextKey{}, companyID)
}

// GetCompanyID returns the active company ID from context, or the nil ID.
func GetCompanyID(ctx context.Context) id.ID {
	if v, ok := ctx.Value(companyContextKey{}).(id.ID); ok {
		return v
	}
	return id.Nil()
}

// HasCompany reports whether a company has been resolved for this request.
func HasCompany(ctx context.Context) bool {
	return !id.IsNil(GetCompanyID(ctx))
}
