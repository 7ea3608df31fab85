package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurelben/boutiq/app/cart"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/bind"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/response"
	"github.com/aurelben/boutiq/pkg/session"
)

// cartKey is the session slot the serialized cart lives under.
const cartKey = "cart"

type CartController struct {
	catalog *services.CatalogService
}

func NewCartController(catalog *services.CatalogService) *CartController {
	return &CartController{catalog: catalog}
}

func cartView(c cart.Cart) map[string]interface{} {
	return map[string]interface{}{
		"items": c,
		"total": cart.Total(c),
	}
}

func cartProductID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "productID"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// View returns the current cart with its running total.
func (c *CartController) View(w http.ResponseWriter, r *http.Request) {
	var items cart.Cart
	session.FromCtx(r).GetJSON(cartKey, &items)
	response.Success(w, cartView(items))
}

// Add puts one unit of a product color in the cart, or bumps the quantity
// of the matching line if the same color is already there.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	productID, ok := cartProductID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	// A missing body reads as an empty color name; selection validation
	// below rejects it like any other mismatch.
	var body struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := c.catalog.Get(productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("cart add lookup failed", "error", err, "product_id", productID)
		response.Error(w, http.StatusInternalServerError, "could not add to cart")
		return
	}

	sess := session.FromCtx(r)
	var items cart.Cart
	sess.GetJSON(cartKey, &items)

	items, err = cart.AddOrIncrement(items, product, body.Color)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, "that color is not available for this product")
		return
	}

	sess.Set(cartKey, items)
	sess.Flash("success", "Added "+product.Name+" to your cart.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, cartView(items))
}

// UpdateQuantity overwrites the quantity of the first line matching the
// product, whatever its color.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := cartProductID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromCtx(r)
	var items cart.Cart
	sess.GetJSON(cartKey, &items)

	items = cart.SetQuantity(items, productID, body.Quantity)

	sess.Set(cartKey, items)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, cartView(items))
}

// Remove drops every line for the product, all colors included.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := cartProductID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	sess := session.FromCtx(r)
	var items cart.Cart
	sess.GetJSON(cartKey, &items)

	items = cart.Remove(items, productID)

	sess.Set(cartKey, items)
	sess.Flash("success", "Removed from your cart.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, cartView(items))
}
