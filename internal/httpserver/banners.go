package httpserver

import (
	"net/http"

	bannersvc "mini-shop/internal/service/banner"

	"github.com/gin-gonic/gin"
)

func (h *handler) listBanners(c *gin.Context) {
	banners, err := h.deps.Banners.ListActive(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", banners)
}

func (h *handler) listAllBanners(c *gin.Context) {
	banners, err := h.deps.Banners.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", banners)
}

func (h *handler) getBanner(c *gin.Context) {
	banner, err := h.deps.Banners.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", banner)
}

func (h *handler) createBanner(c *gin.Context) {
	var req bannersvc.Input
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	banner, err := h.deps.Banners.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, "banner created", banner)
}

func (h *handler) updateBanner(c *gin.Context) {
	var req bannersvc.Input
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	banner, err := h.deps.Banners.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "banner updated", banner)
}

func (h *handler) deleteBanner(c *gin.Context) {
	if err := h.deps.Banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "banner deleted", nil)
}
