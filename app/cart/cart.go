// Package cart implements the session-scoped shopping cart.
//
// The engine is deliberately pure: every operation takes the current cart
// value and returns the next one, so the only mutable state is the
// serialised copy the session store holds between requests. Line items are
// frozen snapshots: price and name are copied at add time and later
// catalogue edits never reach carts that already hold the item.
package cart

import (
	"errors"

	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/collection"
)

// ErrInvalidSelection is returned when an add references a colour the
// product does not have. The cart is left untouched.
var ErrInvalidSelection = errors.New("cart: selected color is not available for this product")

// Line is one (product, colour) entry with a frozen snapshot of the
// product's name, price and images as they were when the line was added.
type Line struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Color       string  `json:"color"`
	ImageFile   string  `json:"image_file"`
	ColorImage  string  `json:"color_image"`
	Quantity    int     `json:"quantity"`
}

// Cart is the ordered collection of lines stored in the session.
type Cart []Line

// AddOrIncrement adds one unit of (product, colorName) to c and returns the
// resulting cart. A line is keyed by (product id, colour name): adding the
// same pair again increments its quantity instead of appending a duplicate.
// There is no upper bound on quantity.
func AddOrIncrement(c Cart, product models.Product, colorName string) (Cart, error) {
	color, ok := product.ColorNamed(colorName)
	if !ok {
		return c, ErrInvalidSelection
	}

	next := append(Cart(nil), c...)
	for i := range next {
		if next[i].ProductID == product.ID && next[i].Color == colorName {
			next[i].Quantity++
			return next, nil
		}
	}

	next = append(next, Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Color:       colorName,
		ImageFile:   product.ImageFile,
		ColorImage:  color.ImageFile,
		Quantity:    1,
	})
	return next, nil
}

// SetQuantity overwrites the quantity of the first line matching productID.
//
// Matching is by product id only: when the same product sits in the cart
// under two colours, whichever line comes first in iteration order is the
// one updated. This asymmetry with AddOrIncrement (which keys on product
// AND colour) is inherited behaviour, kept on purpose.
// The quantity is written as given: zero and negative values are stored
// and the line is not removed.
func SetQuantity(c Cart, productID uint, quantity int) Cart {
	next := append(Cart(nil), c...)
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			break
		}
	}
	return next
}

// Remove drops every line for productID, regardless of colour.
func Remove(c Cart, productID uint) Cart {
	return collection.Reject(c, func(l Line) bool {
		return l.ProductID == productID
	})
}

// Total sums snapshotted price × quantity over all lines.
func Total(c Cart) float64 {
	return collection.Sum(c, func(l Line) float64 {
		return l.Price * float64(l.Quantity)
	})
}
