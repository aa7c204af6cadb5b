package sharing

import (
	"context"
	"fmt"

	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const sharedPath = "/SharedBMAds"

type SharedRepository interface {
	ListShared(ctx context.Context) ([]models.SharedBM, error)
	GetShared(ctx context.Context, id int) (models.SharedBM, error)
	UpdateShared(ctx context.Context, s models.SharedBM) (models.SharedBM, error)
}

type APIShared struct {
	remote resource.Remote
}

func NewAPIShared(remote resource.Remote) *APIShared {
	return &APIShared{remote: remote}
}

func (a *APIShared) ListShared(ctx context.Context) ([]models.SharedBM, error) {
	return resource.FetchNewestFirst[models.SharedBM](ctx, a.remote, sharedPath)
}

func (a *APIShared) GetShared(ctx context.Context, id int) (models.SharedBM, error) {
	var out models.SharedBM
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", sharedPath, id), &out); err != nil {
		return models.SharedBM{}, fmt.Errorf("get shared record %d: %w", id, err)
	}
	return out, nil
}

func (a *APIShared) UpdateShared(ctx context.Context, s models.SharedBM) (models.SharedBM, error) {
	out := s
	if err := a.remote.PutJSON(ctx, fmt.Sprintf("%s/%d", sharedPath, s.ID), s, &out); err != nil {
		return models.SharedBM{}, fmt.Errorf("update shared record %d: %w", s.ID, err)
	}
	return out, nil
}
