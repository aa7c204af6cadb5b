package customers

import (
	"context"
	"fmt"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const usersPath = "/UserManagement"

type CustomerRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	CreateUser(ctx context.Context, u models.User, picture *models.Upload) (models.User, error)
	UpdateUser(ctx context.Context, u models.User, picture *models.Upload) (models.User, error)
}

type APICustomers struct {
	remote resource.Remote
}

func NewAPICustomers(remote resource.Remote) *APICustomers {
	return &APICustomers{remote: remote}
}

func (a *APICustomers) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := resource.FetchNewestFirst[models.User](ctx, a.remote, usersPath)
	if err != nil {
		return nil, err
	}
	return withoutPasswords(users), nil
}

func (a *APICustomers) GetUser(ctx context.Context, id int) (models.User, error) {
	var out models.User
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", usersPath, id), &out); err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	out.Password = ""
	return out, nil
}

func (a *APICustomers) CreateUser(ctx context.Context, u models.User, picture *models.Upload) (models.User, error) {
	out := u
	if err := a.remote.PostForm(ctx, usersPath, userForm(u, picture), &out); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	out.Password = ""
	return out, nil
}

func (a *APICustomers) UpdateUser(ctx context.Context, u models.User, picture *models.Upload) (models.User, error) {
	out := u
	if err := a.remote.PutForm(ctx, fmt.Sprintf("%s/%d", usersPath, u.ID), userForm(u, picture), &out); err != nil {
		return models.User{}, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	out.Password = ""
	return out, nil
}

func userForm(u models.User, picture *models.Upload) *apiclient.Form {
	return apiclient.NewForm().
		SetInt("Id", u.ID).
		Set("UserId", u.UserID).
		Set("AccountName", u.AccountName).
		Set("UserName", u.UserName).
		SetOptional("Password", u.Password).
		Set("ContactNumber", u.ContactNumber).
		Set("ProfilePicture", u.ProfilePicture).
		SetInt("UserTypeId", int(u.UserTypeID)).
		SetBool("Status", u.Status).
		SetDecimal("BaseFee", u.BaseFee).
		SetDecimal("Commission", u.Commission).
		SetInt("NumberOfAccounts", u.NumberOfAccounts).
		SetDecimal("AdditionalAccountFees", u.AdditionalAccountFees).
		SetInt("NumberOfPages", u.NumberOfPages).
		SetDecimal("AdditionalPageFees", u.AdditionalPageFees).
		SetInt("NumberOfFreeAccountsOrCoupons", u.NumberOfFreeAccountsOrCoupons).
		SetOptional("CreatedBy", u.CreatedBy).
		SetOptional("UpdatedBy", u.UpdatedBy).
		AttachAs("ImageFile", picture)
}
