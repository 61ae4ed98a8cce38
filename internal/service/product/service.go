package product

import (
	"context"
	"strings"

	"mini-shop/internal/domain"
	productrepo "mini-shop/internal/repository/product"
)

const (
	DefaultLimit   = 10
	MaxLimit       = 50
	RecommendLimit = 10
	SearchLimit    = 20
)

type productStore interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f productrepo.Filter) ([]domain.Product, int, error)
}

// Service serves catalog reads for the configured default shop.
type Service struct {
	repo   productStore
	shopID string
}

func New(repo productStore, shopID string) *Service {
	return &Service{repo: repo, shopID: shopID}
}

type ListQuery struct {
	Page       int
	Limit      int
	CategoryID string
	Recommend  *bool
}

type Page struct {
	Products    []domain.Product `json:"products"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	page, limit := Normalize(q.Page, q.Limit)
	products, total, err := s.repo.List(ctx, productrepo.Filter{
		ShopID:     s.shopID,
		CategoryID: strings.TrimSpace(q.CategoryID),
		Recommend:  q.Recommend,
		OnSaleOnly: true,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &Page{
		Products:    nonNil(products),
		Total:       total,
		TotalPages:  TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *Service) Recommended(ctx context.Context) ([]domain.Product, error) {
	recommend := true
	products, _, err := s.repo.List(ctx, productrepo.Filter{
		ShopID:     s.shopID,
		Recommend:  &recommend,
		OnSaleOnly: true,
		Limit:      RecommendLimit,
	})
	return nonNil(products), err
}

func (s *Service) ByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, domain.Invalid("categoryId", "categoryId required")
	}
	products, _, err := s.repo.List(ctx, productrepo.Filter{
		ShopID:     s.shopID,
		CategoryID: categoryID,
		OnSaleOnly: true,
	})
	return nonNil(products), err
}

// Detail returns a product from any shop.
func (s *Service) Detail(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("id", "id required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, keyword string) ([]domain.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.Invalid("keyword", "keyword required")
	}
	products, _, err := s.repo.List(ctx, productrepo.Filter{
		ShopID:     s.shopID,
		Keyword:    keyword,
		OnSaleOnly: true,
		Limit:      SearchLimit,
	})
	return nonNil(products), err
}

// Normalize applies the default page size and clamps it to MaxLimit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
