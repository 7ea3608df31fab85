package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/aurelben/boutiq/app/cart"
	"github.com/aurelben/boutiq/app/forms"
	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/app/repositories"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/bind"
	"github.com/aurelben/boutiq/pkg/collection"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/middleware"
	"github.com/aurelben/boutiq/pkg/response"
	"github.com/aurelben/boutiq/pkg/session"
)

type AccountController struct {
	auth   *services.AuthService
	users  *repositories.UserRepository
	orders *repositories.OrderRepository
}

func NewAccountController() *AccountController {
	return &AccountController{
		auth:   services.NewAuthService(),
		users:  repositories.NewUserRepository(),
		orders: repositories.NewOrderRepository(),
	}
}

func orderView(o models.Order) map[string]interface{} {
	// Lines were snapshotted at purchase time; a product deleted since then
	// still renders from the stored blob.
	var lines cart.Cart
	if err := json.Unmarshal([]byte(o.Products), &lines); err != nil {
		lines = cart.Cart{}
	}
	return map[string]interface{}{
		"reference":    o.Reference,
		"placed_at":    o.CreatedAt,
		"total_amount": o.TotalAmount,
		"items":        lines,
	}
}

// Profile returns the authenticated user together with their order history.
func (c *AccountController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.users.FindByID(userID)
	if err != nil {
		response.NotFound(w)
		return
	}

	orders, err := c.orders.ForUser(userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order history lookup failed", "error", err, "user_id", userID)
		response.Error(w, http.StatusInternalServerError, "could not load order history")
		return
	}

	response.Success(w, map[string]interface{}{
		"user":   userView(user),
		"orders": collection.Map(orders, orderView),
	})
}

// UpdateProfile changes username/email and optionally the password.
func (c *AccountController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var form forms.UpdateAccountForm
	if errs, err := bind.JSON(r, &form); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, errs, err := c.auth.UpdateProfile(userID, form)
	if err != nil {
		logger.WithCtx(r.Context()).Error("profile update failed", "error", err, "user_id", userID)
		response.Error(w, http.StatusInternalServerError, "could not update account")
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sess := session.FromCtx(r)
	sess.Flash("success", "Account updated.")
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, userView(user))
}
