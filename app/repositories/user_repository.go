package repositories

import (
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// UsernameTaken reports whether another user (id != excludeID) already
// holds username.
func (r *UserRepository) UsernameTaken(username string, excludeID uint) (bool, error) {
	n, err := orm.DB().Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count()
	return n > 0, err
}

// EmailTaken reports whether another user (id != excludeID) already holds
// email.
func (r *UserRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	n, err := orm.DB().Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count()
	return n > 0, err
}
