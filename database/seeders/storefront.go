package seeders

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/aurelben/boutiq/app/cart"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
	Register("orders", SeedOrders)
}

// SeedUsers creates the default admin account plus one demo shopper.
// Passwords here are for local development only.
func SeedUsers(db *gorm.DB) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	demoHash, err := auth.HashPassword("demo123")
	if err != nil {
		return err
	}

	users := []models.User{
		{Username: "admin", Email: "admin@boutiq.test", Password: adminHash, IsAdmin: true},
		{Username: "demo", Email: "demo@boutiq.test", Password: demoHash},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts inserts a small catalogue with color variants.
func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{
			Name:        "Linen Shirt",
			Price:       49.90,
			Description: "Relaxed fit linen shirt for warm days.",
			Stock:       25,
			Colors: []models.Color{
				{Name: "white", ImageFile: "linen_shirt_white.jpg"},
				{Name: "sand", ImageFile: "linen_shirt_sand.jpg"},
			},
		},
		{
			Name:        "Canvas Tote",
			Price:       19.50,
			Description: "Heavy-duty canvas tote bag.",
			Stock:       60,
		},
		{
			Name:        "Wool Beanie",
			Price:       15.00,
			Description: "Merino wool beanie, one size.",
			Stock:       40,
			Colors: []models.Color{
				{Name: "navy", ImageFile: "beanie_navy.jpg"},
				{Name: "grey", ImageFile: "beanie_grey.jpg"},
				{Name: "rust", ImageFile: "beanie_rust.jpg"},
			},
		},
	}
	for i := range products {
		if err := db.Where("name = ?", products[i].Name).FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedOrders gives the demo shopper an order history to browse.
func SeedOrders(db *gorm.DB) error {
	var user models.User
	if err := db.Where("email = ?", "demo@boutiq.test").First(&user).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var product models.Product
	if err := db.Preload("Colors").Where("name = ?", "Wool Beanie").First(&product).Error; err != nil {
		return err
	}

	lines, err := cart.AddOrIncrement(nil, product, "navy")
	if err != nil {
		return err
	}
	blob, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	order := models.Order{
		UserID:      user.ID,
		Products:    string(blob),
		TotalAmount: cart.Total(lines),
	}
	return db.Create(&order).Error
}
