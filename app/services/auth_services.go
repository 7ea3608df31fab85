package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/repositories"
	"github.com/aurelben/boutiq/pkg/auth"
	"github.com/aurelben/boutiq/pkg/event"
)

// AuthService implements registration, login and profile updates.
//
// Uniqueness of username/email is checked up front and reported as a
// field-level validation error; nothing is persisted when any field fails.
// A constraint violation from a concurrent registration still surfaces as
// a plain database error.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a new account. Field-level problems come back in the
// map; the error is reserved for infrastructure failures.
func (s *AuthService) Register(form forms.RegisterForm) (models.User, map[string]string, error) {
	fieldErrs := map[string]string{}

	if taken, err := s.users.UsernameTaken(form.Username, 0); err != nil {
		return models.User{}, nil, err
	} else if taken {
		fieldErrs["username"] = "That username is taken. Please choose a different one."
	}
	if taken, err := s.users.EmailTaken(form.Email, 0); err != nil {
		return models.User{}, nil, err
	} else if taken {
		fieldErrs["email"] = "That email is already in use. Please choose a different one."
	}
	if len(fieldErrs) > 0 {
		return models.User{}, fieldErrs, nil
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return models.User{}, nil, err
	}

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, nil, err
	}

	event.Fire("user.registered", user)
	return user, nil, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AuthService) Login(form forms.LoginForm) (models.User, string, error) {
	user, err := s.users.FindByEmail(form.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.Password, form.Password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// UpdateProfile overwrites username/email and, when submitted, the
// password. Uniqueness is checked against every other account.
func (s *AuthService) UpdateProfile(userID uint, form forms.UpdateAccountForm) (models.User, map[string]string, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, nil, ErrNotFound
	}
	if err != nil {
		return models.User{}, nil, err
	}

	fieldErrs := map[string]string{}
	if taken, err := s.users.UsernameTaken(form.Username, user.ID); err != nil {
		return models.User{}, nil, err
	} else if taken {
		fieldErrs["username"] = "That username is already taken. Please choose a different one."
	}
	if taken, err := s.users.EmailTaken(form.Email, user.ID); err != nil {
		return models.User{}, nil, err
	} else if taken {
		fieldErrs["email"] = "That email is already in use."
	}
	if len(fieldErrs) > 0 {
		return models.User{}, fieldErrs, nil
	}

	user.Username = form.Username
	user.Email = form.Email
	if form.Password != "" {
		hash, err := auth.HashPassword(form.Password)
		if err != nil {
			return models.User{}, nil, err
		}
		user.Password = hash
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, nil, err
	}
	return user, nil, nil
}
