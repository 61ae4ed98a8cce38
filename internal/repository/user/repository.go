package user

import (
	"context"

	"mini-shop/internal/domain"
)

// ProfileUpdate carries the profile fields a user may change. Nil leaves a field as is.
type ProfileUpdate struct {
	NickName  *string
	AvatarURL *string
	Phone     *string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByOpenID(ctx context.Context, openID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
	SaveAddresses(ctx context.Context, id string, addresses []domain.Address) (*domain.User, error)
}
