package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "phone", Message: "invalid"}, {Message: "bad input"}}}
	assert.Equal(t, "phone: invalid, bad input", err.Error())
	assert.True(t, IsValidation(fmt.Errorf("wrap: %w", Invalid("quantity", "must be at least 1"))))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestBannerIsValid(t *testing.T) {
	now := time.Now()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	assert.True(t, Banner{IsActive: true, StartDate: past}.IsValid(now))
	assert.False(t, Banner{IsActive: false, StartDate: past}.IsValid(now))
	assert.False(t, Banner{IsActive: true, StartDate: future}.IsValid(now))
	assert.False(t, Banner{IsActive: true, StartDate: past, EndDate: &past}.IsValid(now))
	assert.True(t, ValidBannerLinkType(BannerLinkURL))
	assert.False(t, ValidBannerLinkType("page"))
}

func TestShopIsOpen(t *testing.T) {
	s := Shop{BusinessHours: BusinessHours{Open: "09:00", Close: "22:00"}}
	assert.True(t, s.IsOpen(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsOpen(time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.False(t, Shop{}.IsOpen(time.Now()))
}

func TestUserHelpers(t *testing.T) {
	shop := "s1"
	u := User{ShopID: &shop, Addresses: []Address{{ID: "a"}, {ID: "b"}}}
	assert.True(t, u.OwnsShop("s1"))
	assert.False(t, u.OwnsShop("s2"))
	assert.False(t, User{}.OwnsShop(""))
	assert.Equal(t, 1, u.AddressByID("b"))
	assert.Equal(t, -1, u.AddressByID("z"))
}

func TestMobilePattern(t *testing.T) {
	for _, ok := range []string{"13800000000", "19912345678", "15000000001"} {
		assert.True(t, MobilePattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "12800000000", "1380000000", "138000000000", "+8613800000000", "1380000000a"} {
		assert.False(t, MobilePattern.MatchString(bad), bad)
	}
}
