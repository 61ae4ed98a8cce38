package httpserver

import (
	"net/http"
	"strconv"

	productsvc "mini-shop/internal/service/product"

	"github.com/gin-gonic/gin"
)

func (h *handler) listProducts(c *gin.Context) {
	q := productsvc.ListQuery{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		CategoryID: c.Query("categoryId"),
	}
	if raw, present := c.GetQuery("recommend"); present && raw != "" {
		recommend := raw == "true" || raw == "1"
		q.Recommend = &recommend
	}
	page, err := h.deps.Catalog.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}

func (h *handler) recommendedProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Recommended(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", products)
}

func (h *handler) productDetail(c *gin.Context) {
	product, err := h.deps.Catalog.Detail(c.Request.Context(), c.Query("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", product)
}

func (h *handler) productsByCategory(c *gin.Context) {
	products, err := h.deps.Catalog.ByCategory(c.Request.Context(), c.Query("categoryId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", products)
}

func (h *handler) searchProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "", products)
}

// queryInt returns 0 for missing or malformed values; services apply defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
