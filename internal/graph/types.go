package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/store"
)

type organisationResolver struct{ o *model.Organisation }

func (r *organisationResolver) ID() graphql.ID          { return graphql.ID(r.o.ID) }
func (r *organisationResolver) Name() string            { return r.o.Name }
func (r *organisationResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.o.CreatedAt} }

type memberResolver struct{ m *model.Member }

func (r *memberResolver) ID() graphql.ID          { return graphql.ID(r.m.ID) }
func (r *memberResolver) Name() string            { return r.m.Name }
func (r *memberResolver) Batch() int32            { return int32(r.m.Batch) }
func (r *memberResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.m.CreatedAt} }

type departmentResolver struct{ d *model.Department }

func (r *departmentResolver) ID() graphql.ID          { return graphql.ID(r.d.ID) }
func (r *departmentResolver) Name() string            { return r.d.Name }
func (r *departmentResolver) Email() string           { return r.d.Email }
func (r *departmentResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.d.CreatedAt} }

type eventResolver struct{ e *model.Event }

func (r *eventResolver) ID() graphql.ID          { return graphql.ID(r.e.ID) }
func (r *eventResolver) Name() string            { return r.e.Name }
func (r *eventResolver) Year() int32             { return int32(r.e.Year) }
func (r *eventResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.e.CreatedAt} }

type itemResolver struct{ i *model.Item }

func (r *itemResolver) ID() graphql.ID           { return graphql.ID(r.i.ID) }
func (r *itemResolver) Name() string             { return r.i.Name }
func (r *itemResolver) QuantityTotal() int32     { return int32(r.i.QuantityTotal) }
func (r *itemResolver) QuantityAvailable() int32 { return int32(r.i.QuantityAvailable) }
func (r *itemResolver) QuantityIssued() int32    { return int32(r.i.QuantityIssued()) }
func (r *itemResolver) HasImage() bool           { return r.i.ImageMime != "" }
func (r *itemResolver) CreatedAt() graphql.Time  { return graphql.Time{Time: r.i.CreatedAt} }

type itemLogResolver struct {
	root *Resolver
	l    *model.ItemLog
}

func (r *itemLogResolver) ID() graphql.ID           { return graphql.ID(r.l.ID) }
func (r *itemLogResolver) ItemID() graphql.ID       { return graphql.ID(r.l.ItemID) }
func (r *itemLogResolver) EventID() graphql.ID      { return graphql.ID(r.l.EventID) }
func (r *itemLogResolver) IssuedBy() graphql.ID     { return graphql.ID(r.l.IssuedBy) }
func (r *itemLogResolver) DepartmentID() graphql.ID { return graphql.ID(r.l.DepartmentID) }
func (r *itemLogResolver) QuantityIssued() int32    { return int32(r.l.QuantityIssued) }
func (r *itemLogResolver) Overdue() bool            { return r.l.Overdue(time.Now()) }
func (r *itemLogResolver) CreatedAt() graphql.Time  { return graphql.Time{Time: r.l.CreatedAt} }

func (r *itemLogResolver) Phone() *string {
	if r.l.Phone == "" {
		return nil
	}
	return &r.l.Phone
}

func (r *itemLogResolver) ExpectedReturnDate() graphql.Time {
	return graphql.Time{Time: r.l.ExpectedReturnDate}
}

func (r *itemLogResolver) ReturnedAt() *graphql.Time {
	if r.l.ReturnedAt == nil {
		return nil
	}
	return &graphql.Time{Time: *r.l.ReturnedAt}
}

func (r *itemLogResolver) ReturnedBy() *graphql.ID {
	if r.l.ReturnedBy == nil {
		return nil
	}
	id := graphql.ID(*r.l.ReturnedBy)
	return &id
}

func (r *itemLogResolver) Item(ctx context.Context) (_ *itemResolver, err error) {
	defer r.root.track(ctx, "ItemLog.item", time.Now(), &err)

	item, err := store.GetItem(ctx, r.root.DB, r.l.OrganisationID, r.l.ItemID)
	if err != nil {
		return nil, err
	}
	return &itemResolver{item}, nil
}

type statsResolver struct{ s *model.InventoryStats }

func (r *statsResolver) Items() int32             { return int32(r.s.Items) }
func (r *statsResolver) QuantityTotal() int32     { return int32(r.s.QuantityTotal) }
func (r *statsResolver) QuantityAvailable() int32 { return int32(r.s.QuantityAvailable) }
func (r *statsResolver) QuantityIssued() int32    { return int32(r.s.QuantityIssued) }
func (r *statsResolver) OutstandingLogs() int32   { return int32(r.s.OutstandingLogs) }
func (r *statsResolver) ReturnedLogs() int32      { return int32(r.s.ReturnedLogs) }
func (r *statsResolver) OverdueLogs() int32       { return int32(r.s.OverdueLogs) }

type driftResolver struct{ d model.StockDrift }

func (r *driftResolver) ItemID() graphql.ID { return graphql.ID(r.d.ItemID) }
func (r *driftResolver) ItemName() string   { return r.d.ItemName }
func (r *driftResolver) Stored() int32      { return int32(r.d.Stored) }
func (r *driftResolver) Derived() int32     { return int32(r.d.Derived) }

type qualityResolver struct{ q *model.InductionQuality }

func (r *qualityResolver) ID() graphql.ID     { return graphql.ID(r.q.ID) }
func (r *qualityResolver) Name() string       { return r.q.Name }
func (r *qualityResolver) Weightage() float64 { return r.q.Weightage }

type evaluationResolver struct {
	root *Resolver
	e    model.InductionEvaluation
}

func (r *evaluationResolver) ID() graphql.ID          { return graphql.ID(r.e.ID) }
func (r *evaluationResolver) QualityID() graphql.ID   { return graphql.ID(r.e.QualityID) }
func (r *evaluationResolver) Score() float64          { return r.e.Score }
func (r *evaluationResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.e.CreatedAt} }

func (r *evaluationResolver) Quality(ctx context.Context) (_ *qualityResolver, err error) {
	defer r.root.track(ctx, "InductionEvaluation.quality", time.Now(), &err)

	q, err := store.GetQuality(ctx, r.root.DB, r.e.OrganisationID, r.e.QualityID)
	if err != nil {
		return nil, err
	}
	return &qualityResolver{q}, nil
}

// contestantResolver loads evaluations lazily unless they were fetched
// together with the contestant.
type contestantResolver struct {
	root        *Resolver
	c           model.InductionContestant
	evaluations []model.InductionEvaluation
	loaded      bool
}

func (r *contestantResolver) ID() graphql.ID          { return graphql.ID(r.c.ID) }
func (r *contestantResolver) Name() string            { return r.c.Name }
func (r *contestantResolver) Email() string           { return r.c.Email }
func (r *contestantResolver) FinalScore() *float64    { return r.c.FinalScore }
func (r *contestantResolver) SelectionStatus() string { return r.c.SelectionStatus }

func (r *contestantResolver) Evaluations(ctx context.Context) (_ []*evaluationResolver, err error) {
	defer r.root.track(ctx, "InductionContestant.evaluations", time.Now(), &err)

	if !r.loaded {
		ce, err := store.GetContestantEvaluation(ctx, r.root.DB, r.c.OrganisationID, r.c.ID)
		if err != nil {
			return nil, err
		}
		r.evaluations, r.loaded = ce.Evaluations, true
	}

	out := make([]*evaluationResolver, len(r.evaluations))
	for i, e := range r.evaluations {
		out[i] = &evaluationResolver{root: r.root, e: e}
	}
	return out, nil
}

type summaryResolver struct {
	root *Resolver
	s    *model.InductionSummary
}

func (r *summaryResolver) Total() int32                   { return int32(r.s.Total) }
func (r *summaryResolver) Evaluated() int32               { return int32(r.s.Evaluated) }
func (r *summaryResolver) Selected() int32                { return int32(r.s.Selected) }
func (r *summaryResolver) Rejected() int32                { return int32(r.s.Rejected) }
func (r *summaryResolver) Pending() int32                 { return int32(r.s.Pending) }
func (r *summaryResolver) AverageScore() *float64         { return r.s.AverageScore }
func (r *summaryResolver) AverageSelectedScore() *float64 { return r.s.AverageSelectedScore }

func (r *summaryResolver) Ranking() []*contestantResolver {
	return r.root.contestants(r.s.Ranking)
}

func (r *Resolver) contestants(list []model.InductionContestant) []*contestantResolver {
	out := make([]*contestantResolver, len(list))
	for i := range list {
		out[i] = &contestantResolver{root: r, c: list[i]}
	}
	return out
}
