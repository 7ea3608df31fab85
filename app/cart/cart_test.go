package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aurelben/boutiq/app/cart"
	"github.com/aurelben/boutiq/app/models"
)

func shirt() models.Product {
	return models.Product{
		Model:     gorm.Model{ID: 7},
		Name:      "Linen Shirt",
		Price:     10,
		ImageFile: "linen.jpg",
		Colors: []models.Color{
			{Name: "red", ImageFile: "linen-red.jpg", ProductID: 7},
			{Name: "blue", ImageFile: "linen-blue.jpg", ProductID: 7},
		},
	}
}

func TestAddSnapshotsProductAndColor(t *testing.T) {
	c, err := cart.AddOrIncrement(nil, shirt(), "red")
	require.NoError(t, err)
	require.Len(t, c, 1)

	line := c[0]
	assert.Equal(t, uint(7), line.ProductID)
	assert.Equal(t, "Linen Shirt", line.ProductName)
	assert.Equal(t, 10.0, line.Price)
	assert.Equal(t, "red", line.Color)
	assert.Equal(t, "linen.jpg", line.ImageFile)
	assert.Equal(t, "linen-red.jpg", line.ColorImage)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddTwiceIncrementsInsteadOfDuplicating(t *testing.T) {
	p := shirt()
	c, err := cart.AddOrIncrement(nil, p, "red")
	require.NoError(t, err)
	c, err = cart.AddOrIncrement(c, p, "red")
	require.NoError(t, err)

	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Quantity)
}

func TestAddDistinctColorsAppendsLines(t *testing.T) {
	p := shirt()
	c, err := cart.AddOrIncrement(nil, p, "red")
	require.NoError(t, err)
	c, err = cart.AddOrIncrement(c, p, "blue")
	require.NoError(t, err)

	require.Len(t, c, 2)
	assert.Equal(t, "red", c[0].Color)
	assert.Equal(t, "blue", c[1].Color)
}

func TestAddUnknownColorLeavesCartUnchanged(t *testing.T) {
	p := shirt()
	c, err := cart.AddOrIncrement(nil, p, "red")
	require.NoError(t, err)

	got, err := cart.AddOrIncrement(c, p, "chartreuse")
	assert.ErrorIs(t, err, cart.ErrInvalidSelection)
	assert.Equal(t, c, got)
}

func TestAddDoesNotMutateInput(t *testing.T) {
	p := shirt()
	c, err := cart.AddOrIncrement(nil, p, "red")
	require.NoError(t, err)

	_, err = cart.AddOrIncrement(c, p, "red")
	require.NoError(t, err)
	assert.Equal(t, 1, c[0].Quantity, "input cart must stay untouched")
}

func TestSetQuantityMatchesFirstLineByProductOnly(t *testing.T) {
	p := shirt()
	c, _ := cart.AddOrIncrement(nil, p, "red")
	c, _ = cart.AddOrIncrement(c, p, "blue")

	c = cart.SetQuantity(c, p.ID, 5)
	assert.Equal(t, 5, c[0].Quantity)
	assert.Equal(t, 1, c[1].Quantity, "only the first matching line changes")
}

func TestSetQuantityKeepsZeroAndNegativeLines(t *testing.T) {
	c, _ := cart.AddOrIncrement(nil, shirt(), "red")

	c = cart.SetQuantity(c, 7, 0)
	require.Len(t, c, 1)
	assert.Equal(t, 0, c[0].Quantity)

	c = cart.SetQuantity(c, 7, -3)
	require.Len(t, c, 1)
	assert.Equal(t, -3, c[0].Quantity)
}

func TestSetQuantityUnknownProductIsNoop(t *testing.T) {
	c, _ := cart.AddOrIncrement(nil, shirt(), "red")
	got := cart.SetQuantity(c, 999, 4)
	assert.Equal(t, c, got)
}

func TestRemoveDropsAllColorsOfProduct(t *testing.T) {
	p := shirt()
	c, _ := cart.AddOrIncrement(nil, p, "red")
	c, _ = cart.AddOrIncrement(c, p, "blue")

	c = cart.Remove(c, p.ID)
	assert.Empty(t, c)
}

func TestRemoveKeepsOtherProducts(t *testing.T) {
	p := shirt()
	other := models.Product{
		Model:  gorm.Model{ID: 9},
		Name:   "Wool Scarf",
		Price:  5,
		Colors: []models.Color{{Name: "grey", ProductID: 9}},
	}

	c, _ := cart.AddOrIncrement(nil, p, "red")
	c, _ = cart.AddOrIncrement(c, other, "grey")

	c = cart.Remove(c, p.ID)
	require.Len(t, c, 1)
	assert.Equal(t, uint(9), c[0].ProductID)
}

func TestTotal(t *testing.T) {
	c := cart.Cart{
		{ProductID: 1, Price: 10, Quantity: 2},
		{ProductID: 2, Price: 5, Quantity: 3},
	}
	assert.Equal(t, 35.0, cart.Total(c))
	assert.Equal(t, 0.0, cart.Total(nil))
}
