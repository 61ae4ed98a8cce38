package category

import (
	"context"
	"strings"
	"unicode/utf8"

	"mini-shop/internal/domain"
)

const maxNameLength = 20

type categoryStore interface {
	ListActiveByShop(ctx context.Context, shopID string) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Category, error)
}

type Service struct {
	repo          categoryStore
	defaultShopID string
}

func New(repo categoryStore, defaultShopID string) *Service {
	return &Service{repo: repo, defaultShopID: defaultShopID}
}

type CreateInput struct {
	ShopID      string `json:"shopId"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

// UpdateInput carries the fields to change; nil fields are kept.
type UpdateInput struct {
	Name        *string `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Category, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	shopID := strings.TrimSpace(in.ShopID)
	if shopID == "" {
		shopID = s.defaultShopID
	}
	if shopID == "" {
		return nil, domain.Invalid("shopId", "shopId required")
	}
	return s.repo.Create(ctx, domain.Category{
		ShopID:      shopID,
		Name:        name,
		Icon:        strings.TrimSpace(in.Icon),
		Description: strings.TrimSpace(in.Description),
		SortOrder:   in.SortOrder,
		IsActive:    true,
	})
}

func (s *Service) ListByShop(ctx context.Context, shopID string) ([]domain.Category, error) {
	categories, err := s.repo.ListActiveByShop(ctx, strings.TrimSpace(shopID))
	if categories == nil && err == nil {
		categories = []domain.Category{}
	}
	return categories, err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, err := validName(*in.Name)
		if err != nil {
			return nil, err
		}
		c.Name = name
	}
	if in.Icon != nil {
		c.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return s.repo.Update(ctx, *c)
}

// Delete deactivates the category; rows are never removed so products keep
// their reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.repo.SetActive(ctx, id, false)
	return err
}

func (s *Service) SetStatus(ctx context.Context, id string, active bool) (*domain.Category, error) {
	return s.repo.SetActive(ctx, id, active)
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.Invalid("name", "name required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", domain.Invalid("name", "name must be at most 20 characters")
	}
	return name, nil
}
