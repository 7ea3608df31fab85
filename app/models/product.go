package models

import "gorm.io/gorm"

// DefaultProductImage is the sentinel asset used when a product is created
// without an upload.
const DefaultProductImage = "default.jpg"

// MaxColors is the fixed number of colour slots a product form exposes.
const MaxColors = 3

// Product is a catalogue aggregate: the product row plus its owned colour
// variants. Colors never outlive their product; deletes cascade.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:100;not null;index" json:"name"`
	Price       float64 `gorm:"not null" json:"price"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	ImageFile   string  `gorm:"size:100;not null;default:default.jpg" json:"image_file"`
	Colors      []Color `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
}

// Color is a variant owned by exactly one product. ImageFile is empty when
// the colour has no distinct image.
type Color struct {
	gorm.Model
	Name      string `gorm:"size:50;not null" json:"name"`
	ImageFile string `gorm:"size:100" json:"image_file"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
}

// ColorNamed returns the colour with the given name, if the product has one.
func (p *Product) ColorNamed(name string) (Color, bool) {
	for _, c := range p.Colors {
		if c.Name == name {
			return c, true
		}
	}
	return Color{}, false
}
