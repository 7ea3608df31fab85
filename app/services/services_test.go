package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/database"
)

// newTestDB swaps the global connection for an in-memory sqlite database
// for the duration of one test.
func newTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Color{}, &models.Order{},
	))

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

func registerForm(username, email string) forms.RegisterForm {
	return forms.RegisterForm{
		Username:        username,
		Email:           email,
		Password:             "secret99",
		PasswordConfirmation: "secret99",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	newTestDB(t)
	svc := NewAuthService()

	user, errs, err := svc.Register(registerForm("marie", "marie@example.com"))
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret99", user.Password, "password must be hashed")

	got, token, err := svc.Login(forms.LoginForm{Email: "marie@example.com", Password: "secret99"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	newTestDB(t)
	svc := NewAuthService()

	_, errs, err := svc.Register(registerForm("first", "dup@example.com"))
	require.NoError(t, err)
	require.Empty(t, errs)

	_, errs, err = svc.Register(registerForm("second", "dup@example.com"))
	require.NoError(t, err)
	assert.Contains(t, errs, "email")

	var count int64
	require.NoError(t, database.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed registration must not persist a row")
}

func TestLoginWrongPassword(t *testing.T) {
	newTestDB(t)
	svc := NewAuthService()

	_, errs, err := svc.Register(registerForm("paul", "paul@example.com"))
	require.NoError(t, err)
	require.Empty(t, errs)

	_, _, err = svc.Login(forms.LoginForm{Email: "paul@example.com", Password: "wrong999"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(forms.LoginForm{Email: "nobody@example.com", Password: "secret99"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileUniquenessExcludesSelf(t *testing.T) {
	newTestDB(t)
	svc := NewAuthService()

	user, _, err := svc.Register(registerForm("renee", "renee@example.com"))
	require.NoError(t, err)
	_, _, err = svc.Register(registerForm("other", "other@example.com"))
	require.NoError(t, err)

	// Keeping your own username/email is not a conflict.
	updated, errs, err := svc.UpdateProfile(user.ID, forms.UpdateAccountForm{
		Username: "renee",
		Email:    "renee@example.com",
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "renee", updated.Username)

	// Taking someone else's email is.
	_, errs, err = svc.UpdateProfile(user.ID, forms.UpdateAccountForm{
		Username: "renee",
		Email:    "other@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
}

func productForm(name string, colors ...string) *forms.ProductForm {
	f := &forms.ProductForm{
		Name:        name,
		Price:       12.50,
		Description: "test product",
		Stock:       5,
	}
	for i, c := range colors {
		if i >= models.MaxColors {
			break
		}
		f.Colors[i].Name = c
	}
	return f
}

func newCatalog() *CatalogService {
	// No disk behind the normalizer: uploads are nil in these tests.
	return NewCatalogService(nil)
}

func TestCreateProductColorsRoundTrip(t *testing.T) {
	newTestDB(t)
	svc := newCatalog()

	created, err := svc.Create(productForm("Scarf", "red", "blue", "green"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProductImage, created.ImageFile)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Colors, 3)
	assert.Equal(t, "red", got.Colors[0].Name)
	assert.Equal(t, "blue", got.Colors[1].Name)
	assert.Equal(t, "green", got.Colors[2].Name)
}

func TestCreateProductSkipsEmptyColorSlots(t *testing.T) {
	newTestDB(t)
	svc := newCatalog()

	form := productForm("Cap")
	form.Colors[1].Name = "black" // only the middle slot is filled

	_, err := svc.Create(form)
	require.NoError(t, err)

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Colors, 1)
	assert.Equal(t, "black", all[0].Colors[0].Name)
}

func TestUpdateProductPositionalColors(t *testing.T) {
	newTestDB(t)
	svc := newCatalog()

	created, err := svc.Create(productForm("Sock", "white", "grey"))
	require.NoError(t, err)

	// Slot three is submitted but the product only has two colors; the
	// extra slot is ignored and the set never grows.
	form := productForm("Sock v2", "cream", "charcoal", "pink")
	updated, err := svc.Update(created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "Sock v2", updated.Name)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Colors, 2)
	assert.Equal(t, "cream", got.Colors[0].Name)
	assert.Equal(t, "charcoal", got.Colors[1].Name)
}

func TestDeleteProductCascadesColors(t *testing.T) {
	newTestDB(t)
	svc := newCatalog()

	created, err := svc.Create(productForm("Belt", "brown", "black"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var orphans int64
	require.NoError(t, database.DB.Model(&models.Color{}).
		Where("product_id = ?", created.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}
