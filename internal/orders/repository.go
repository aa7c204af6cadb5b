package orders

import (
	"context"
	"fmt"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const (
	ordersPath     = "/BMAdsOrders"
	listOrdersPath = ordersPath + "/GetBMAdsOrders"
)

type OrderRepository interface {
	ListOrders(ctx context.Context) ([]models.BMAdsOrder, error)
	GetOrder(ctx context.Context, id int) (models.BMAdsOrder, error)
	CreateOrder(ctx context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error)
	UpdateOrder(ctx context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error)
}

type APIOrders struct {
	remote resource.Remote
}

func NewAPIOrders(remote resource.Remote) *APIOrders {
	return &APIOrders{remote: remote}
}

func (a *APIOrders) ListOrders(ctx context.Context) ([]models.BMAdsOrder, error) {
	return resource.FetchNewestFirst[models.BMAdsOrder](ctx, a.remote, listOrdersPath)
}

func (a *APIOrders) GetOrder(ctx context.Context, id int) (models.BMAdsOrder, error) {
	var out models.BMAdsOrder
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", ordersPath, id), &out); err != nil {
		return models.BMAdsOrder{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return out, nil
}

func (a *APIOrders) CreateOrder(ctx context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	out := o
	if err := a.remote.PostForm(ctx, ordersPath, orderForm(o), &out); err != nil {
		return models.BMAdsOrder{}, fmt.Errorf("create order: %w", err)
	}
	return out, nil
}

// UpdateOrder sends the whole record as JSON, the way the approval screen
// does.
func (a *APIOrders) UpdateOrder(ctx context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	out := o
	if err := a.remote.PutJSON(ctx, fmt.Sprintf("%s/%d", ordersPath, o.ID), o, &out); err != nil {
		return models.BMAdsOrder{}, fmt.Errorf("update order %d: %w", o.ID, err)
	}
	return out, nil
}

func orderForm(o models.BMAdsOrder) *apiclient.Form {
	return apiclient.NewForm().
		SetInt("Id", o.ID).
		SetInt("UserTypeId", int(o.UserTypeID)).
		SetInt("UserManagementId", o.UserManagementID).
		Set("OrderNo", o.OrderNo).
		Set("Name", o.Name).
		Set("BMId", o.BMID).
		SetInt("NumberOfAccounts", o.NumberOfAccounts).
		SetInt("NumberOfPages", o.NumberOfPages).
		Set("AccountTimeZone", o.AccountTimeZone).
		Set("SelfProfileLink", o.SelfProfileLink).
		SetDecimal("TopUpAmount", o.TopUpAmount).
		SetDecimal("RedeemedAmount", o.RedeemedAmount).
		Set("Status", o.Status).
		SetOptional("CreatedBy", o.CreatedBy).
		SetOptional("UpdatedBy", o.UpdatedBy)
}
