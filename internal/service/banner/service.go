package banner

import (
	"context"
	"strings"
	"time"

	"mini-shop/internal/domain"
)

type bannerStore interface {
	ListActive(ctx context.Context, shopID string, now time.Time) ([]domain.Banner, error)
	ListAll(ctx context.Context, shopID string) ([]domain.Banner, error)
	GetByID(ctx context.Context, id string) (*domain.Banner, error)
	Create(ctx context.Context, b domain.Banner) (*domain.Banner, error)
	Update(ctx context.Context, b domain.Banner) (*domain.Banner, error)
	Delete(ctx context.Context, id string) error
}

// Service manages the carousel of the default shop.
type Service struct {
	repo   bannerStore
	shopID string
	now    func() time.Time
}

func New(repo bannerStore, shopID string) *Service {
	return &Service{repo: repo, shopID: shopID, now: time.Now}
}

// Input is used for both create and update. Nil pointers leave the stored
// value alone on update and take the default on create.
type Input struct {
	ImageURL    *string    `json:"imageUrl"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	LinkType    *string    `json:"linkType"`
	LinkTarget  *string    `json:"linkTarget"`
	SortOrder   *int       `json:"sortOrder"`
	IsActive    *bool      `json:"isActive"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Banner, error) {
	return s.repo.ListActive(ctx, s.shopID, s.now())
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Banner, error) {
	return s.repo.ListAll(ctx, s.shopID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Banner, error) {
	return s.repo.GetByID(ctx, id)
}

// Create always files the banner under the default shop.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Banner, error) {
	if s.shopID == "" {
		return nil, domain.Invalid("shopId", "default shop is not configured")
	}
	b := domain.Banner{ShopID: s.shopID, LinkType: domain.BannerLinkNone, IsActive: true}
	if err := apply(&b, in); err != nil {
		return nil, err
	}
	if b.ImageURL == "" {
		return nil, domain.Invalid("imageUrl", "imageUrl required")
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Banner, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(b, in); err != nil {
		return nil, err
	}
	if b.ImageURL == "" {
		return nil, domain.Invalid("imageUrl", "imageUrl required")
	}
	return s.repo.Update(ctx, *b)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func apply(b *domain.Banner, in Input) error {
	if in.ImageURL != nil {
		b.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.LinkType != nil {
		lt := strings.TrimSpace(*in.LinkType)
		if !domain.ValidBannerLinkType(lt) {
			return domain.Invalid("linkType", "linkType must be one of product, category, url, none")
		}
		b.LinkType = lt
	}
	if in.LinkTarget != nil {
		b.LinkTarget = strings.TrimSpace(*in.LinkTarget)
	}
	if in.SortOrder != nil {
		b.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.StartDate != nil {
		b.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		end := *in.EndDate
		b.EndDate = &end
	}
	if b.EndDate != nil && !b.StartDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return domain.Invalid("endDate", "endDate must not precede startDate")
	}
	return nil
}
