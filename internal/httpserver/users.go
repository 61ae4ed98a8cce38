package httpserver

import (
	"net/http"

	"mini-shop/internal/domain"
	usersvc "mini-shop/internal/service/user"

	"github.com/gin-gonic/gin"
)

type addressRequest struct {
	Name      string   `json:"name" binding:"required"`
	Phone     string   `json:"phone" binding:"required,cnmobile"`
	Region    []string `json:"region" binding:"required,min=3"`
	Detail    string   `json:"detail" binding:"required"`
	IsDefault bool     `json:"isDefault"`
}

func (h *handler) profile(c *gin.Context) {
	user, err := h.deps.Users.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", user)
}

func (h *handler) updateProfile(c *gin.Context) {
	var req usersvc.ProfileInput
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	user, err := h.deps.Users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "profile updated", user)
}

func (h *handler) listAddresses(c *gin.Context) {
	addresses, err := h.deps.Users.Addresses(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", nonNilAddresses(addresses))
}

func (h *handler) addAddress(c *gin.Context) {
	var req addressRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	addresses, err := h.deps.Users.AddAddress(c.Request.Context(), currentUser(c).ID, usersvc.AddressInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, "address added", addresses)
}

func (h *handler) updateAddress(c *gin.Context) {
	var req addressRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	addresses, err := h.deps.Users.UpdateAddress(c.Request.Context(), currentUser(c).ID, c.Param("addressId"), usersvc.AddressInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "address updated", addresses)
}

func (h *handler) deleteAddress(c *gin.Context) {
	addresses, err := h.deps.Users.DeleteAddress(c.Request.Context(), currentUser(c).ID, c.Param("addressId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "address deleted", nonNilAddresses(addresses))
}

func (h *handler) setDefaultAddress(c *gin.Context) {
	addresses, err := h.deps.Users.SetDefaultAddress(c.Request.Context(), currentUser(c).ID, c.Param("addressId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "default address set", addresses)
}

func nonNilAddresses(addresses []domain.Address) []domain.Address {
	if addresses == nil {
		return []domain.Address{}
	}
	return addresses
}
