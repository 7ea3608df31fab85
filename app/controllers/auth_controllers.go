package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/bind"
	"github.com/aurelben/boutiq/pkg/crypt"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/middleware"
	"github.com/aurelben/boutiq/pkg/response"
	"github.com/aurelben/boutiq/pkg/session"
)

// rememberTTL is how long the "remember me" cookie outlives the session.
const rememberTTL = 30 * 24 * time.Hour

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

func userView(u models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
	}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	if errs, err := bind.JSON(r, &form); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, errs, err := c.auth.Register(form)
	if err != nil {
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sess := session.FromCtx(r)
	sess.Flash("success", "Your account has been created. You can now log in.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Created(w, userView(user))
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if errs, err := bind.JSON(r, &form); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Login(form)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not log in")
		return
	}

	if form.Remember {
		c.setRememberCookie(w, r, user)
	}

	sess := session.FromCtx(r)
	sess.Set("user_id", user.ID)
	sess.Flash("success", "Welcome back, "+user.Username+"!")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  userView(user),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, map[string]string{"message": "logged out"})
}

func (c *AuthController) setRememberCookie(w http.ResponseWriter, r *http.Request, user models.User) {
	payload := middleware.RememberPayload{UserID: user.ID, Admin: user.IsAdmin}
	encoded, err := crypt.EncryptJSON(payload)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("remember cookie encrypt failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RememberCookie,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(rememberTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
