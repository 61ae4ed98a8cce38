package domain

import "time"

// Banner link targets.
const (
	BannerLinkProduct  = "product"
	BannerLinkCategory = "category"
	BannerLinkURL      = "url"
	BannerLinkNone     = "none"
)

type Banner struct {
	ID          string     `json:"id"`
	ShopID      string     `json:"shopId"`
	ImageURL    string     `json:"imageUrl"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	LinkType    string     `json:"linkType"`
	LinkTarget  string     `json:"linkTarget"`
	SortOrder   int        `json:"sortOrder"`
	IsActive    bool       `json:"isActive"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsValid reports whether the banner is active and inside its display window at now.
func (b Banner) IsValid(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if !b.StartDate.IsZero() && b.StartDate.After(now) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(now) {
		return false
	}
	return true
}

// ValidBannerLinkType reports whether t is a known link type.
func ValidBannerLinkType(t string) bool {
	switch t {
	case BannerLinkProduct, BannerLinkCategory, BannerLinkURL, BannerLinkNone:
		return true
	}
	return false
}
