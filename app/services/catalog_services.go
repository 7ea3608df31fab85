package services

import (
	"errors"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/repositories"
	"github.com/aurelben/boutiq/config"
	"github.com/aurelben/boutiq/pkg/event"
	"github.com/aurelben/boutiq/pkg/imaging"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/orm"
	"github.com/aurelben/boutiq/pkg/storage"
	"github.com/aurelben/boutiq/pkg/workerpool"
)

// Catalog events fired on every successful mutation. The cache listener
// (app/listeners) uses them to drop the shop listing cache.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ShopListingCacheKey is the redis key the cached shop listing lives under.
const ShopListingCacheKey = "boutiq:products:all"

// CatalogService implements admin CRUD over the Product aggregate and owns
// the image pipeline. Image failures never abort the surrounding create or
// update: a bad upload degrades to "no image" for that slot and the rest
// of the aggregate is persisted as submitted.
type CatalogService struct {
	products *repositories.ProductRepository
	images   *imaging.Normalizer
}

func NewCatalogService(images *imaging.Normalizer) *CatalogService {
	return &CatalogService{
		products: repositories.NewProductRepository(),
		images:   images,
	}
}

// List returns the whole catalogue for the shop and admin pages.
func (s *CatalogService) List() ([]models.Product, error) {
	return s.products.All()
}

// ListPage returns one admin page of the catalogue.
func (s *CatalogService) ListPage(page, perPage int) ([]models.Product, orm.Pagination, error) {
	return s.products.Page(page, perPage)
}

// Get loads one aggregate, translating a missing row into ErrNotFound.
func (s *CatalogService) Get(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

// Create persists a new product with up to three colours. Colour slots
// whose name is empty are skipped; they do not become placeholder rows.
// The product image falls back to the default asset when absent or
// unprocessable.
func (s *CatalogService) Create(form *forms.ProductForm) (models.Product, error) {
	product := models.Product{
		Name:        form.Name,
		Price:       form.Price,
		Description: form.Description,
		Stock:       form.Stock,
		ImageFile:   models.DefaultProductImage,
	}

	uploads := make([]*multipart.FileHeader, 0, models.MaxColors+1)
	uploads = append(uploads, form.Image)
	for _, slot := range form.Colors {
		uploads = append(uploads, slot.Image)
	}
	refs := s.storeUploads(uploads)

	if refs[0] != "" {
		product.ImageFile = refs[0]
	}

	for i, slot := range form.Colors {
		if slot.Name == "" {
			continue
		}
		product.Colors = append(product.Colors, models.Color{
			Name:      slot.Name,
			ImageFile: refs[i+1],
		})
	}

	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}

	event.Fire(EventProductCreated, product)
	return product, nil
}

// Update overwrites the product fields and updates colours positionally:
// slot N of the form writes colour N of the aggregate, for as many colours
// as the product already has. Extra submitted slots are ignored: the form
// cannot grow or shrink the colour set. Images are only replaced when a
// new upload is present.
func (s *CatalogService) Update(id uint, form *forms.ProductForm) (models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return models.Product{}, err
	}

	product.Name = form.Name
	product.Price = form.Price
	product.Description = form.Description
	product.Stock = form.Stock

	if form.Image != nil {
		if ref := s.storeUpload(form.Image); ref != "" {
			product.ImageFile = ref
		}
	}

	for i := range product.Colors {
		if i >= models.MaxColors {
			break
		}
		slot := form.Colors[i]
		product.Colors[i].Name = slot.Name
		if slot.Image != nil {
			if ref := s.storeUpload(slot.Image); ref != "" {
				product.Colors[i].ImageFile = ref
			}
		}
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}

	event.Fire(EventProductUpdated, product)
	return product, nil
}

// Delete removes the aggregate and all of its colours.
func (s *CatalogService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(&product); err != nil {
		return err
	}

	event.Fire(EventProductDeleted, product)
	return nil
}

// uploadPool bounds concurrent image normalisation across requests.
var uploadPool = workerpool.New(4)

// storeUploads normalises a batch of uploads through the shared pool.
// Index i of the result matches index i of the input; absent or failed
// uploads come back as "".
func (s *CatalogService) storeUploads(fhs []*multipart.FileHeader) []string {
	refs := make([]string, len(fhs))
	var wg sync.WaitGroup
	for i, fh := range fhs {
		if fh == nil {
			continue
		}
		i, fh := i, fh
		wg.Add(1)
		if err := uploadPool.Submit(func() {
			defer wg.Done()
			refs[i] = s.storeUpload(fh)
		}); err != nil {
			// Pool saturated or shut down: do the work inline.
			refs[i] = s.storeUpload(fh)
			wg.Done()
		}
	}
	wg.Wait()
	return refs
}

// storeUpload runs one upload through the normaliser. Any failure is
// logged and swallowed: the caller gets "" and treats the image as absent.
func (s *CatalogService) storeUpload(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}

	f, err := fh.Open()
	if err != nil {
		logger.Warn("catalog: cannot open upload", "file", fh.Filename, "error", err)
		return ""
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		logger.Warn("catalog: cannot read upload", "file", fh.Filename, "error", err)
		return ""
	}

	ref, err := s.images.Normalize(raw, fh.Filename)
	if err != nil {
		logger.Warn("catalog: image rejected", "file", fh.Filename, "error", err)
		return ""
	}
	return ref
}

// ListCached serves the public shop page through the redis read-through;
// stale entries are dropped by the product event listeners.
func (s *CatalogService) ListCached() ([]models.Product, error) {
	return s.products.AllCached(ShopListingCacheKey, 5*time.Minute)
}

// DefaultNormalizer builds an image normalizer over the configured default
// disk and upload directory.
func DefaultNormalizer() *imaging.Normalizer {
	return imaging.New(storage.Default(), config.UploadDir())
}
