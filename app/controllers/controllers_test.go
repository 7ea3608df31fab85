package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/database"
)

func newTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Color{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		database.DB = prev
	})
}

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCartViewEmpty(t *testing.T) {
	c := NewCartController(services.NewCatalogService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	c.View(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestCartAddUnknownProduct(t *testing.T) {
	newTestDB(t)
	c := NewCartController(services.NewCatalogService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/999", strings.NewReader(`{"color":"red"}`))
	req = withURLParam(req, "productID", "999")
	rec := httptest.NewRecorder()
	c.Add(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddInvalidColor(t *testing.T) {
	newTestDB(t)

	product := models.Product{
		Name:        "Scarf",
		Price:       20,
		Description: "wool scarf",
		Colors:      []models.Color{{Name: "red"}},
	}
	require.NoError(t, database.DB.Create(&product).Error)

	c := NewCartController(services.NewCatalogService(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/1", strings.NewReader(`{"color":"pink"}`))
	req = withURLParam(req, "productID", "1")
	rec := httptest.NewRecorder()
	c.Add(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProductShowBadID(t *testing.T) {
	c := NewProductController(services.NewCatalogService(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products/abc", nil)
	req = withURLParam(req, "id", "abc")
	rec := httptest.NewRecorder()
	c.Show(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
