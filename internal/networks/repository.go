package networks

import (
	"context"
	"fmt"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const networksPath = "/CryptoNetworks"

type NetworkRepository interface {
	ListNetworks(ctx context.Context) ([]models.CryptoNetwork, error)
	GetNetwork(ctx context.Context, id int) (models.CryptoNetwork, error)
	CreateNetwork(ctx context.Context, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error)
	UpdateNetwork(ctx context.Context, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error)
}

type APINetworks struct {
	remote resource.Remote
}

func NewAPINetworks(remote resource.Remote) *APINetworks {
	return &APINetworks{remote: remote}
}

func (a *APINetworks) ListNetworks(ctx context.Context) ([]models.CryptoNetwork, error) {
	return resource.FetchNewestFirst[models.CryptoNetwork](ctx, a.remote, networksPath)
}

func (a *APINetworks) GetNetwork(ctx context.Context, id int) (models.CryptoNetwork, error) {
	var n models.CryptoNetwork
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", networksPath, id), &n); err != nil {
		return models.CryptoNetwork{}, fmt.Errorf("get network %d: %w", id, err)
	}
	return n, nil
}

func (a *APINetworks) CreateNetwork(ctx context.Context, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error) {
	out := n
	if err := a.remote.PostForm(ctx, networksPath, networkForm(n, image), &out); err != nil {
		return models.CryptoNetwork{}, fmt.Errorf("create network: %w", err)
	}
	return out, nil
}

func (a *APINetworks) UpdateNetwork(ctx context.Context, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error) {
	out := n
	if err := a.remote.PutForm(ctx, fmt.Sprintf("%s/%d", networksPath, n.ID), networkForm(n, image), &out); err != nil {
		return models.CryptoNetwork{}, fmt.Errorf("update network %d: %w", n.ID, err)
	}
	return out, nil
}

func networkForm(n models.CryptoNetwork, image *models.Upload) *apiclient.Form {
	return apiclient.NewForm().
		SetInt("Id", n.ID).
		Set("CryptoNetworkName", n.Name).
		Set("CryptoNetworkDescription", n.Description).
		Set("CryptoNetworkImage", n.Image).
		SetBool("Status", n.Status).
		SetOptional("CreatedBy", n.CreatedBy).
		SetOptional("UpdatedBy", n.UpdatedBy).
		AttachAs("ImageFile", image)
}
