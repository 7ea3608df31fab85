package repositories

import (
	"time"

	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/orm"
)

// ProductRepository handles database operations for the Product aggregate.
// Colors are always loaded with their product; they are never read or
// written on their own.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// All returns every product with its colours, oldest first. The shop page
// has no pagination.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Colors").
		OrderBy("id asc").
		Get(&products)
	return products, err
}

// AllCached is All with a redis read-through for the public shop page.
// Catalogue mutations invalidate key via the product events.
func (r *ProductRepository) AllCached(key string, ttl time.Duration) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Colors").
		OrderBy("id asc").
		Cache(key, ttl, &products)
	return products, err
}

// Page returns one page of the catalogue for the admin table.
func (r *ProductRepository) Page(page, perPage int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pg, err := orm.DB().Model(&models.Product{}).
		Preload("Colors").
		OrderBy("id asc").
		Paginate(page, perPage, &products)
	return products, pg, err
}

// FindByID loads one product aggregate. Returns gorm.ErrRecordNotFound
// when the id does not exist.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Colors").
		Where("id = ?", id).
		First(&product)
	return product, err
}

// Create persists a product together with its colours.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Update persists product and its colour rows.
func (r *ProductRepository) Update(product *models.Product) error {
	return orm.DB().Save(product)
}

// Delete removes the aggregate atomically: the colour rows and the product
// go in one transaction so a colour can never outlive its product.
func (r *ProductRepository) Delete(product *models.Product) error {
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Color{}); err != nil {
			return err
		}
		return tx.Delete(product)
	})
}
