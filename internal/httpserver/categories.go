package httpserver

import (
	"net/http"

	categorysvc "mini-shop/internal/service/category"

	"github.com/gin-gonic/gin"
)

type categoryStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h *handler) createCategory(c *gin.Context) {
	var req categorysvc.CreateInput
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	category, err := h.deps.Categories.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, "category created", category)
}

func (h *handler) listCategories(c *gin.Context) {
	categories, err := h.deps.Categories.ListByShop(c.Request.Context(), c.Param("shopId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", categories)
}

func (h *handler) getCategory(c *gin.Context) {
	category, err := h.deps.Categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", category)
}

func (h *handler) updateCategory(c *gin.Context) {
	var req categorysvc.UpdateInput
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	category, err := h.deps.Categories.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "category updated", category)
}

func (h *handler) deleteCategory(c *gin.Context) {
	if err := h.deps.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "category deleted", nil)
}

func (h *handler) setCategoryStatus(c *gin.Context) {
	var req categoryStatusRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	category, err := h.deps.Categories.SetStatus(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "category status updated", category)
}
