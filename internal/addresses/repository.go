package addresses

import (
	"context"
	"fmt"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const addressesPath = "/CryptoAddresses"

type AddressRepository interface {
	ListAddresses(ctx context.Context) ([]models.CryptoAddress, error)
	GetAddress(ctx context.Context, id int) (models.CryptoAddress, error)
	CreateAddress(ctx context.Context, a models.CryptoAddress) (models.CryptoAddress, error)
	UpdateAddress(ctx context.Context, a models.CryptoAddress) (models.CryptoAddress, error)
}

type APIAddresses struct {
	remote resource.Remote
}

func NewAPIAddresses(remote resource.Remote) *APIAddresses {
	return &APIAddresses{remote: remote}
}

func (a *APIAddresses) ListAddresses(ctx context.Context) ([]models.CryptoAddress, error) {
	return resource.FetchNewestFirst[models.CryptoAddress](ctx, a.remote, addressesPath)
}

func (a *APIAddresses) GetAddress(ctx context.Context, id int) (models.CryptoAddress, error) {
	var out models.CryptoAddress
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", addressesPath, id), &out); err != nil {
		return models.CryptoAddress{}, fmt.Errorf("get address %d: %w", id, err)
	}
	return out, nil
}

func (a *APIAddresses) CreateAddress(ctx context.Context, in models.CryptoAddress) (models.CryptoAddress, error) {
	out := in
	if err := a.remote.PostForm(ctx, addressesPath, addressForm(in), &out); err != nil {
		return models.CryptoAddress{}, fmt.Errorf("create address: %w", err)
	}
	return out, nil
}

func (a *APIAddresses) UpdateAddress(ctx context.Context, in models.CryptoAddress) (models.CryptoAddress, error) {
	out := in
	if err := a.remote.PutForm(ctx, fmt.Sprintf("%s/%d", addressesPath, in.ID), addressForm(in), &out); err != nil {
		return models.CryptoAddress{}, fmt.Errorf("update address %d: %w", in.ID, err)
	}
	return out, nil
}

func addressForm(a models.CryptoAddress) *apiclient.Form {
	return apiclient.NewForm().
		SetInt("Id", a.ID).
		Set("Address", a.Address).
		SetInt("CryptoNetworkId", a.NetworkID).
		SetBool("Status", a.Status).
		SetOptional("CreatedBy", a.CreatedBy).
		SetOptional("UpdatedBy", a.UpdatedBy)
}
