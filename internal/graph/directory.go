package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/erazemk/drustvo/internal/store"
)

type createMemberInput struct {
	Name  string `validate:"required,max=200"`
	Batch int32  `validate:"gt=0"`
}

type updateMemberInput struct {
	ID    graphql.ID `validate:"required"`
	Name  *string    `validate:"omitempty,min=1,max=200"`
	Batch *int32     `validate:"omitempty,gt=0"`
}

type createDepartmentInput struct {
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
}

type createEventInput struct {
	Name string `validate:"required,max=200"`
	Year int32  `validate:"gt=0"`
}

func (r *Resolver) Organisation(ctx context.Context) (_ *organisationResolver, err error) {
	defer r.track(ctx, "organisation", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	org, err := store.GetOrganisation(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	return &organisationResolver{org}, nil
}

// CheckOrganisationLogin is what the web client polls to find out whether
// its session is still valid.
func (r *Resolver) CheckOrganisationLogin(ctx context.Context) (*organisationResolver, error) {
	return r.Organisation(ctx)
}

func (r *Resolver) Members(ctx context.Context) (_ []*memberResolver, err error) {
	defer r.track(ctx, "members", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	members, err := store.ListMembers(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*memberResolver, len(members))
	for i := range members {
		out[i] = &memberResolver{&members[i]}
	}
	return out, nil
}

func (r *Resolver) CreateMember(ctx context.Context, args struct{ CreateMemberInput createMemberInput }) (_ *memberResolver, err error) {
	defer r.track(ctx, "createMember", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateMemberInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	m, err := store.CreateMember(ctx, r.DB, orgID, in.Name, int(in.Batch))
	if err != nil {
		return nil, err
	}
	return &memberResolver{m}, nil
}

func (r *Resolver) UpdateMember(ctx context.Context, args struct{ UpdateMemberInput updateMemberInput }) (_ *memberResolver, err error) {
	defer r.track(ctx, "updateMember", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.UpdateMemberInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	m, err := store.UpdateMember(ctx, r.DB, orgID, string(in.ID), in.Name, optionalInt(in.Batch))
	if err != nil {
		return nil, err
	}
	return &memberResolver{m}, nil
}

func (r *Resolver) RemoveMember(ctx context.Context, args struct{ ID string }) (_ bool, err error) {
	defer r.track(ctx, "removeMember", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteMember(ctx, r.DB, orgID, args.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) Departments(ctx context.Context) (_ []*departmentResolver, err error) {
	defer r.track(ctx, "departments", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := store.ListDepartments(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*departmentResolver, len(departments))
	for i := range departments {
		out[i] = &departmentResolver{&departments[i]}
	}
	return out, nil
}

func (r *Resolver) CreateDepartment(ctx context.Context, args struct{ CreateDepartmentInput createDepartmentInput }) (_ *departmentResolver, err error) {
	defer r.track(ctx, "createDepartment", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateDepartmentInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	d, err := store.CreateDepartment(ctx, r.DB, orgID, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	return &departmentResolver{d}, nil
}

func (r *Resolver) RemoveDepartment(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "removeDepartment", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteDepartment(ctx, r.DB, orgID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) Events(ctx context.Context) (_ []*eventResolver, err error) {
	defer r.track(ctx, "events", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	events, err := store.ListEvents(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*eventResolver, len(events))
	for i := range events {
		out[i] = &eventResolver{&events[i]}
	}
	return out, nil
}

func (r *Resolver) Event(ctx context.Context, args struct{ ID graphql.ID }) (_ *eventResolver, err error) {
	defer r.track(ctx, "event", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	e, err := store.GetEvent(ctx, r.DB, orgID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &eventResolver{e}, nil
}

func (r *Resolver) CreateEvent(ctx context.Context, args struct{ CreateEventInput createEventInput }) (_ *eventResolver, err error) {
	defer r.track(ctx, "createEvent", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateEventInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	e, err := store.CreateEvent(ctx, r.DB, orgID, in.Name, int(in.Year))
	if err != nil {
		return nil, err
	}
	return &eventResolver{e}, nil
}

func (r *Resolver) RemoveEvent(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "removeEvent", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteEvent(ctx, r.DB, orgID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}
