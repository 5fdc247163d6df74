// Package graph serves the organisation API over GraphQL. Every query and
// mutation runs against the organisation found in the request context.
package graph

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/metrics"
	"github.com/erazemk/drustvo/internal/tenant"
)

// MaxDepth bounds query nesting.
const MaxDepth = 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// Resolver is the root resolver for queries and mutations.
type Resolver struct {
	DB      *sql.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics

	// TrustClientTotal stores the submitted total of an evaluation as the
	// final score instead of checking it against the weighted scores.
	TrustClientTotal bool
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r, graphql.MaxDepth(MaxDepth))
}

func (r *Resolver) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// organisation returns the caller's organisation ID.
func organisation(ctx context.Context) (string, error) {
	orgID, ok := tenant.OrganisationID(ctx)
	if !ok {
		return "", errUnauthenticated
	}
	return orgID, nil
}

func optionalID(id *graphql.ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

func optionalInt(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
