package domain

import (
	"regexp"
	"time"
)

// DefaultNickName is assigned to users who sign in without a profile name.
const DefaultNickName = "微信用户"

// MobilePattern matches a mainland China mobile number.
var MobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// MinRegionParts is province, city and district.
const MinRegionParts = 3

// Address is a shipping address stored on the user record.
type Address struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Region    []string `json:"region"`
	Detail    string   `json:"detail"`
	IsDefault bool     `json:"isDefault"`
}

// User is a mini-program account identified by its provider open id.
type User struct {
	ID        string    `json:"id"`
	OpenID    string    `json:"-"`
	NickName  string    `json:"nickName"`
	AvatarURL string    `json:"avatarUrl"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"address"`
	ShopID    *string   `json:"shopId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnsShop reports whether the user is associated with shopID.
func (u User) OwnsShop(shopID string) bool {
	return u.ShopID != nil && *u.ShopID != "" && *u.ShopID == shopID
}

// AddressByID returns the index of the address with id, or -1.
func (u User) AddressByID(id string) int {
	for i, a := range u.Addresses {
		if a.ID == id {
			return i
		}
	}
	return -1
}
