package httpserver

import (
	"net/http"

	"mini-shop/internal/domain"
	ordersvc "mini-shop/internal/service/order"

	"github.com/gin-gonic/gin"
)

type orderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type paymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus" binding:"required"`
}

func (h *handler) createOrder(c *gin.Context) {
	var req ordersvc.CreateInput
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.deps.Orders.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, "order created", order)
}

func (h *handler) listUserOrders(c *gin.Context) {
	page, err := h.deps.Orders.ListForUser(c.Request.Context(), currentUser(c).ID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}

func (h *handler) listShopOrders(c *gin.Context) {
	status := domain.OrderStatus(c.Query("status"))
	page, err := h.deps.Orders.ListForShop(c.Request.Context(), *currentUser(c), status, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}

func (h *handler) getOrder(c *gin.Context) {
	order, err := h.deps.Orders.Get(c.Request.Context(), *currentUser(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", order)
}

func (h *handler) updateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.deps.Orders.UpdateStatus(c.Request.Context(), *currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "order status updated", order)
}

func (h *handler) updatePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := bind(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.deps.Orders.UpdatePayment(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.PaymentStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "payment status updated", order)
}

func (h *handler) cancelOrder(c *gin.Context) {
	order, err := h.deps.Orders.Cancel(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "order cancelled", order)
}
