package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/store"
)

type createQualityInput struct {
	Name      string  `validate:"required,max=200"`
	Weightage float64 `validate:"gte=0,lte=100"`
}

type updateQualityInput struct {
	ID        graphql.ID `validate:"required"`
	Name      *string    `validate:"omitempty,min=1,max=200"`
	Weightage *float64   `validate:"omitempty,gte=0,lte=100"`
}

type createContestantInput struct {
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
}

type updateContestantInput struct {
	ID    graphql.ID `validate:"required"`
	Name  *string    `validate:"omitempty,min=1,max=200"`
	Email *string    `validate:"omitempty,email"`
}

type qualityScoreInput struct {
	QualityID graphql.ID `validate:"required"`
	Score     float64    `validate:"gte=0,lte=10"`
}

type evaluationInput struct {
	ContestantID graphql.ID          `validate:"required"`
	TotalScore   float64             `validate:"gte=0,lte=10"`
	Qualities    []qualityScoreInput `validate:"required,min=1,dive"`
}

func (r *Resolver) InductionQuantities(ctx context.Context) (_ []*qualityResolver, err error) {
	defer r.track(ctx, "inductionQuantities", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	qualities, err := store.ListQualities(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*qualityResolver, len(qualities))
	for i := range qualities {
		out[i] = &qualityResolver{&qualities[i]}
	}
	return out, nil
}

func (r *Resolver) CreateInductionQuantity(ctx context.Context, args struct{ CreateInductionQuantityInput createQualityInput }) (_ *qualityResolver, err error) {
	defer r.track(ctx, "createInductionQuantity", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateInductionQuantityInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	q, err := store.CreateQuality(ctx, r.DB, orgID, in.Name, in.Weightage)
	if err != nil {
		return nil, err
	}
	return &qualityResolver{q}, nil
}

func (r *Resolver) UpdateInductionQuantity(ctx context.Context, args struct{ UpdateInductionQuantityInput updateQualityInput }) (_ *qualityResolver, err error) {
	defer r.track(ctx, "updateInductionQuantity", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.UpdateInductionQuantityInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	q, err := store.UpdateQuality(ctx, r.DB, orgID, string(in.ID), in.Name, in.Weightage)
	if err != nil {
		return nil, err
	}
	return &qualityResolver{q}, nil
}

func (r *Resolver) RemoveInductionQuantity(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "removeInductionQuantity", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteQuality(ctx, r.DB, orgID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) InductionContestants(ctx context.Context) (_ []*contestantResolver, err error) {
	defer r.track(ctx, "inductionContestants", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	contestants, err := store.ListContestants(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	return r.contestants(contestants), nil
}

func (r *Resolver) CreateInductionContestant(ctx context.Context, args struct{ CreateInductionContestantInput createContestantInput }) (_ *contestantResolver, err error) {
	defer r.track(ctx, "createInductionContestant", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateInductionContestantInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := store.CreateContestant(ctx, r.DB, orgID, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	return &contestantResolver{root: r, c: *c}, nil
}

func (r *Resolver) UpdateInductionContestant(ctx context.Context, args struct{ UpdateInductionContestantInput updateContestantInput }) (_ *contestantResolver, err error) {
	defer r.track(ctx, "updateInductionContestant", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.UpdateInductionContestantInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := store.UpdateContestant(ctx, r.DB, orgID, string(in.ID), in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	return &contestantResolver{root: r, c: *c}, nil
}

func (r *Resolver) RemoveInductionContestant(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "removeInductionContestant", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteContestant(ctx, r.DB, orgID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) GetContestantEvaluationData(ctx context.Context, args struct{ ID graphql.ID }) (_ *contestantResolver, err error) {
	defer r.track(ctx, "getContestantEvaluationData", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	ce, err := store.GetContestantEvaluation(ctx, r.DB, orgID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &contestantResolver{root: r, c: ce.Contestant, evaluations: ce.Evaluations, loaded: true}, nil
}

func (r *Resolver) EvaluateContestant(ctx context.Context, args struct{ EvaluateContestantInput evaluationInput }) (_ *contestantResolver, err error) {
	defer r.track(ctx, "evaluateContestant", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.EvaluateContestantInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	ev := store.Evaluation{
		ContestantID: string(in.ContestantID),
		TotalScore:   in.TotalScore,
		Scores:       make([]model.QualityScore, len(in.Qualities)),
	}
	for i, q := range in.Qualities {
		ev.Scores[i] = model.QualityScore{QualityID: string(q.QualityID), Score: q.Score}
	}

	c, err := store.EvaluateContestant(ctx, r.DB, orgID, ev, r.TrustClientTotal)
	if err != nil {
		return nil, err
	}
	return &contestantResolver{root: r, c: *c}, nil
}

func (r *Resolver) SetContestantSelection(ctx context.Context, args struct {
	IDs    []graphql.ID
	Status string
}) (_ []*contestantResolver, err error) {
	defer r.track(ctx, "setContestantSelection", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(args.IDs))
	for i, id := range args.IDs {
		ids[i] = string(id)
	}
	contestants, err := store.SetContestantSelection(ctx, r.DB, orgID, ids, args.Status)
	if err != nil {
		return nil, err
	}
	return r.contestants(contestants), nil
}

func (r *Resolver) InductionSummary(ctx context.Context, args struct {
	MinScore *float64
	MaxScore *float64
}) (_ *summaryResolver, err error) {
	defer r.track(ctx, "inductionSummary", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	s, err := store.InductionSummary(ctx, r.DB, orgID, args.MinScore, args.MaxScore)
	if err != nil {
		return nil, err
	}
	return &summaryResolver{root: r, s: s}, nil
}
