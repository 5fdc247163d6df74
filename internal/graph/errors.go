package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/metrics"
	"github.com/erazemk/drustvo/internal/store"
	"github.com/erazemk/drustvo/internal/tenant"
)

// Error codes reported in the "code" extension of a GraphQL error.
const (
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeConflict             = "CONFLICT"
	CodeQuantityInsufficient = "ITEM_QUANTITY_INSUFFICIENT"
	CodeItemLogNotFound      = "ITEM_LOG_NOT_FOUND"
	CodeWeightageCapacity    = "WEIGHTAGE_CAPACITY_EXCEEDED"
	CodeInvalidDistribution  = "INVALID_WEIGHTAGE_DISTRIBUTION"
	CodeContestantEvaluated  = "CONTESTANT_ALREADY_EVALUATED"
	CodeTotalScoreMismatch   = "TOTAL_SCORE_MISMATCH"
	CodeInternal             = "INTERNAL"
)

var errUnauthenticated = errors.New("authentication required")

// Error is a resolver error carrying a machine-readable code.
type Error struct {
	Code    string
	Message string
	Fields  map[string]interface{}
}

func (e *Error) Error() string { return e.Message }

// Extensions implements the graphql-go resolver error interface.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	for k, v := range e.Fields {
		ext[k] = v
	}
	return ext
}

// toError translates a store or validation error into an *Error. Errors
// without a known cause become INTERNAL and keep their detail out of the
// response.
func toError(err error) *Error {
	var (
		stock        *store.StockError
		capacity     *store.CapacityError
		distribution *store.DistributionError
		mismatch     *store.ScoreMismatchError
		invalid      validator.ValidationErrors
		gerr         *Error
	)

	switch {
	case errors.As(err, &gerr):
		return gerr
	case errors.Is(err, errUnauthenticated):
		return &Error{Code: CodeUnauthenticated, Message: err.Error()}
	case errors.As(err, &stock):
		return &Error{Code: CodeQuantityInsufficient, Message: err.Error(), Fields: map[string]interface{}{
			"available": stock.Available,
			"requested": stock.Requested,
		}}
	case errors.Is(err, store.ErrItemLogNotFound):
		return &Error{Code: CodeItemLogNotFound, Message: err.Error()}
	case errors.As(err, &capacity):
		return &Error{Code: CodeWeightageCapacity, Message: err.Error(), Fields: map[string]interface{}{
			"current":   capacity.Current,
			"requested": capacity.Requested,
		}}
	case errors.As(err, &distribution):
		return &Error{Code: CodeInvalidDistribution, Message: err.Error(), Fields: map[string]interface{}{
			"sum": distribution.Sum,
		}}
	case errors.Is(err, store.ErrAlreadyEvaluated):
		return &Error{Code: CodeContestantEvaluated, Message: err.Error()}
	case errors.As(err, &mismatch):
		return &Error{Code: CodeTotalScoreMismatch, Message: err.Error(), Fields: map[string]interface{}{
			"submitted": mismatch.Submitted,
			"computed":  mismatch.Computed,
		}}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrNotEvaluated):
		return &Error{Code: CodeInvalidInput, Message: err.Error()}
	case errors.As(err, &invalid):
		return &Error{Code: CodeInvalidInput, Message: describe(invalid)}
	case errors.Is(err, store.ErrInUse), errors.Is(err, store.ErrExists):
		return &Error{Code: CodeConflict, Message: err.Error()}
	}
	return &Error{Code: CodeInternal, Message: "internal server error"}
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return "invalid input: " + strings.Join(msgs, ", ")
}

// track records the outcome of an operation and rewrites *errp into the
// error returned to the client. It is meant to be deferred with a named
// error result.
func (r *Resolver) track(ctx context.Context, op string, start time.Time, errp *error) {
	if *errp == nil {
		r.Metrics.Observe(op, metrics.OutcomeOK, start)
		return
	}

	orig := *errp
	gerr := toError(orig)
	orgID, _ := tenant.OrganisationID(ctx)
	*errp = gerr

	if gerr.Code == CodeInternal {
		r.Metrics.Observe(op, metrics.OutcomeError, start)
		r.logger().Error("graphql operation failed",
			zap.String("operation", op),
			zap.String("organisation_id", orgID),
			zap.Error(orig),
		)
		return
	}

	r.Metrics.Observe(op, metrics.OutcomeRejected, start)
	r.logger().Info("graphql operation rejected",
		zap.String("operation", op),
		zap.String("organisation_id", orgID),
		zap.String("code", gerr.Code),
		zap.String("reason", orig.Error()),
	)
}
