package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/store"
)

type createItemInput struct {
	Name          string `validate:"required,max=200"`
	QuantityTotal int32  `validate:"gte=0"`
}

type updateItemInput struct {
	ID            graphql.ID `validate:"required"`
	Name          *string    `validate:"omitempty,min=1,max=200"`
	QuantityTotal *int32     `validate:"omitempty,gte=0"`
}

type createItemLogInput struct {
	ItemID             graphql.ID `validate:"required"`
	EventID            graphql.ID `validate:"required"`
	IssuedBy           graphql.ID `validate:"required"`
	DepartmentID       graphql.ID `validate:"required"`
	Phone              *string    `validate:"omitempty,max=32"`
	QuantityIssued     int32      `validate:"gt=0"`
	ExpectedReturnDate graphql.Time
}

func (r *Resolver) Items(ctx context.Context) (_ []*itemResolver, err error) {
	defer r.track(ctx, "items", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	items, err := store.ListItems(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*itemResolver, len(items))
	for i := range items {
		out[i] = &itemResolver{&items[i]}
	}
	return out, nil
}

func (r *Resolver) Item(ctx context.Context, args struct{ ID graphql.ID }) (_ *itemResolver, err error) {
	defer r.track(ctx, "item", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	item, err := store.GetItem(ctx, r.DB, orgID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &itemResolver{item}, nil
}

func (r *Resolver) CreateItem(ctx context.Context, args struct{ CreateItemInput createItemInput }) (_ *itemResolver, err error) {
	defer r.track(ctx, "createItem", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateItemInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	item, err := store.CreateItem(ctx, r.DB, orgID, in.Name, int(in.QuantityTotal))
	if err != nil {
		return nil, err
	}
	return &itemResolver{item}, nil
}

func (r *Resolver) UpdateItem(ctx context.Context, args struct{ UpdateItemInput updateItemInput }) (_ *itemResolver, err error) {
	defer r.track(ctx, "updateItem", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.UpdateItemInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	item, err := store.UpdateItem(ctx, r.DB, orgID, string(in.ID), in.Name, optionalInt(in.QuantityTotal))
	if err != nil {
		return nil, err
	}
	return &itemResolver{item}, nil
}

func (r *Resolver) RemoveItem(ctx context.Context, args struct{ ID graphql.ID }) (_ bool, err error) {
	defer r.track(ctx, "removeItem", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	if err := store.DeleteItem(ctx, r.DB, orgID, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) ItemLogs(ctx context.Context, args struct {
	EventID *graphql.ID
	Status  *string
}) (_ []*itemLogResolver, err error) {
	defer r.track(ctx, "itemLogs", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	status := model.LogStatusAll
	if args.Status != nil {
		status = *args.Status
	}
	logs, err := store.ListItemLogs(ctx, r.DB, orgID, optionalID(args.EventID), status)
	if err != nil {
		return nil, err
	}
	out := make([]*itemLogResolver, len(logs))
	for i := range logs {
		out[i] = &itemLogResolver{root: r, l: &logs[i]}
	}
	return out, nil
}

func (r *Resolver) ItemLog(ctx context.Context, args struct{ ID graphql.ID }) (_ *itemLogResolver, err error) {
	defer r.track(ctx, "itemLog", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	l, err := store.GetItemLog(ctx, r.DB, orgID, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &itemLogResolver{root: r, l: l}, nil
}

func (r *Resolver) CreateItemLog(ctx context.Context, args struct{ CreateItemLogInput createItemLogInput }) (_ *itemLogResolver, err error) {
	defer r.track(ctx, "createItemLog", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	in := args.CreateItemLogInput
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	req := model.IssueRequest{
		ItemID:             string(in.ItemID),
		EventID:            string(in.EventID),
		IssuedBy:           string(in.IssuedBy),
		DepartmentID:       string(in.DepartmentID),
		QuantityIssued:     int(in.QuantityIssued),
		ExpectedReturnDate: in.ExpectedReturnDate.Time,
	}
	if in.Phone != nil {
		req.Phone = *in.Phone
	}

	l, err := store.IssueItem(ctx, r.DB, orgID, req)
	if err != nil {
		return nil, err
	}
	return &itemLogResolver{root: r, l: l}, nil
}

func (r *Resolver) ReturnItemLog(ctx context.Context, args struct {
	ID         graphql.ID
	ReturnedBy *graphql.ID
}) (_ bool, err error) {
	defer r.track(ctx, "returnItemLog", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return false, err
	}
	var returnedBy *string
	if args.ReturnedBy != nil {
		id := string(*args.ReturnedBy)
		returnedBy = &id
	}
	if _, err := store.ReturnItem(ctx, r.DB, orgID, string(args.ID), returnedBy); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) InventoryStats(ctx context.Context, args struct{ EventID *graphql.ID }) (_ *statsResolver, err error) {
	defer r.track(ctx, "inventoryStats", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	s, err := store.InventoryStats(ctx, r.DB, orgID, optionalID(args.EventID))
	if err != nil {
		return nil, err
	}
	return &statsResolver{s}, nil
}

func (r *Resolver) StockDrift(ctx context.Context) (_ []*driftResolver, err error) {
	defer r.track(ctx, "stockDrift", time.Now(), &err)

	orgID, err := organisation(ctx)
	if err != nil {
		return nil, err
	}
	drift, err := store.CheckStock(ctx, r.DB, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*driftResolver, len(drift))
	for i, d := range drift {
		out[i] = &driftResolver{d}
	}
	return out, nil
}
