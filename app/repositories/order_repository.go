package repositories

import (
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/orm"
)

// OrderRepository handles database operations for Order. Orders are
// append-only snapshots: there is no update or delete path.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order snapshot.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.DB().Create(order)
}

// ForUser returns a user's order history, newest first.
func (r *OrderRepository) ForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		OrderBy("created_at desc").
		Get(&orders)
	return orders, err
}
