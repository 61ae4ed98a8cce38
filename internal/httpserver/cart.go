package httpserver

import (
	"net/http"

	cartsvc "mini-shop/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type updateCartRequest struct {
	CartID   string `json:"cartId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type removeCartRequest struct {
	CartID string `json:"cartId" binding:"required"`
}

type removeManyRequest struct {
	CartIDs []string `json:"cartIds" binding:"required,min=1"`
}

func (h *handler) addToCart(c *gin.Context) {
	var req cartsvc.AddInput
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	line, err := h.deps.Cart.Add(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "added to cart", line)
}

func (h *handler) listCart(c *gin.Context) {
	lines, err := h.deps.Cart.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", lines)
}

func (h *handler) updateCartLine(c *gin.Context) {
	var req updateCartRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	line, err := h.deps.Cart.UpdateQuantity(c.Request.Context(), currentUser(c).ID, req.CartID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "cart updated", line)
}

func (h *handler) removeCartLine(c *gin.Context) {
	var req removeCartRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.deps.Cart.Remove(c.Request.Context(), currentUser(c).ID, req.CartID); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "removed from cart", nil)
}

func (h *handler) removeCartLines(c *gin.Context) {
	var req removeManyRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	n, err := h.deps.Cart.RemoveMany(c.Request.Context(), currentUser(c).ID, req.CartIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "removed from cart", gin.H{"deletedCount": n})
}
