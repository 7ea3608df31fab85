package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/response"
	"github.com/aurelben/boutiq/pkg/session"
)

// maxProductFormMemory bounds the in-memory portion of a multipart product
// form; larger uploads spill to temp files.
const maxProductFormMemory = 10 << 20

// ProductController is the admin CRUD surface over the catalogue.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func productID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	products, pagination, err := c.catalog.ListPage(page, perPage)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product listing failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.catalog.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product lookup failed", "error", err, "product_id", id)
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form, errs := forms.ProductFormFromRequest(r)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Create(form)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create product")
		return
	}

	sess := session.FromCtx(r)
	sess.Flash("success", product.Name+" has been added to the store.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form, errs := forms.ProductFormFromRequest(r)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Update(id, form)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product update failed", "error", err, "product_id", id)
		response.Error(w, http.StatusInternalServerError, "could not update product")
		return
	}

	sess := session.FromCtx(r)
	sess.Flash("success", product.Name+" has been updated.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.catalog.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product delete failed", "error", err, "product_id", id)
		response.Error(w, http.StatusInternalServerError, "could not delete product")
		return
	}

	sess := session.FromCtx(r)
	sess.Flash("success", "Product deleted.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}
