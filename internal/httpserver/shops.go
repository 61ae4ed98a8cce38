package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) listShops(c *gin.Context) {
	shops, err := h.deps.Shops.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", shops)
}

func (h *handler) getShop(c *gin.Context) {
	shop, err := h.deps.Shops.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", shop)
}
