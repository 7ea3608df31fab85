package controllers

import (
	"net/http"

	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/response"
)

type ShopController struct {
	catalog *services.CatalogService
}

func NewShopController(catalog *services.CatalogService) *ShopController {
	return &ShopController{catalog: catalog}
}

// Index is the public storefront listing. Reads go through the redis cache;
// admin mutations invalidate it via product events.
func (c *ShopController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListCached()
	if err != nil {
		logger.WithCtx(r.Context()).Error("shop listing failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	response.Success(w, products)
}
