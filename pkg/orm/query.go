// Package orm is a thin fluent wrapper over GORM. It keeps repository code
// free of *gorm.DB plumbing, times every query for Prometheus and offers a
// redis read-through for hot lists.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/aurelben/boutiq/pkg/cache"
	"github.com/aurelben/boutiq/pkg/database"
	"github.com/aurelben/boutiq/pkg/metrics"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the globally connected database.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap adapts an existing *gorm.DB (e.g. a transaction handle) to a Query.
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(association string) *Query {
	return &Query{db: q.db.Preload(association)}
}

func (q *Query) OrderBy(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Create inserts v (and its associations).
func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// Save upserts v, writing all fields.
func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Delete removes v (or the rows matched by a preceding Where).
func (q *Query) Delete(v interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(v).Error
}

// Transaction runs fn inside a database transaction; a returned error
// rolls everything back.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(Wrap(tx))
	})
}

// Cache reads dest from redis under key, falling back to the database and
// priming the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	if err := q.Get(dest); err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck
	return nil
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Paginate loads one page of matching rows into dest and returns the page
// metadata. Page numbers start at 1.
func (q *Query) Paginate(page, perPage int, dest interface{}) (Pagination, error) {
	defer metrics.ObserveDBQuery("paginate", time.Now())

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := q.db.Offset(offset).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, LastPage: last}, nil
}
