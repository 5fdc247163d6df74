// Package tenant carries the authenticated organisation through a context.
package tenant

import "context"

type contextKey struct{}

// WithOrganisation returns a copy of ctx scoped to the organisation.
func WithOrganisation(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, contextKey{}, orgID)
}

// OrganisationID returns the organisation ctx is scoped to, if any.
func OrganisationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
