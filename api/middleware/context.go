package middleware

import "context"

type contextKey string

const (
	ctxApplicantID contextKey = "applicant_id"
	ctxIsAdmin     contextKey = "is_admin"
)

func ApplicantIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxApplicantID).(int64); ok {
		return v
	}
	return 0
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// WithApplicantID injects the applicant identifier into the context.
func WithApplicantID(ctx context.Context, applicantID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxApplicantID, applicantID)
}

// WithIsAdmin marks the request context as carrying admin privileges.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
