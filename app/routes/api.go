package routes

import (
	"github.com/aurelben/boutiq/app/controllers"
	"github.com/aurelben/boutiq/app/services"
	"github.com/aurelben/boutiq/pkg/middleware"
	"github.com/aurelben/boutiq/pkg/rbac"
	"github.com/aurelben/boutiq/pkg/router"
)

// RegisterAPI mounts the storefront API. Guest routes reject already
// authenticated callers; cart and profile need a login; the admin group
// adds the role check on top.
func RegisterAPI(r *router.Router) {
	catalog := services.NewCatalogService(services.DefaultNormalizer())

	auth := controllers.NewAuthController()
	account := controllers.NewAccountController()
	shop := controllers.NewShopController(catalog)
	cart := controllers.NewCartController(catalog)
	products := controllers.NewProductController(catalog)

	api := r.Group("/api")

	api.Get("/shop", "shop.index", shop.Index)

	guest := api.Group("", middleware.Identify, rbac.Guest)
	guest.Post("/register", "auth.register", auth.Register)
	guest.Post("/login", "auth.login", auth.Login)

	protected := api.Group("", middleware.Auth)
	protected.Post("/logout", "auth.logout", auth.Logout)
	protected.Get("/profile", "account.profile", account.Profile)
	protected.Put("/profile", "account.update", account.UpdateProfile)

	protected.Get("/cart", "cart.view", cart.View)
	protected.Post("/cart/{productID}", "cart.add", cart.Add)
	protected.Post("/cart/{productID}/quantity", "cart.quantity", cart.UpdateQuantity)
	protected.Post("/cart/{productID}/remove", "cart.remove", cart.Remove)

	admin := api.Group("/admin", middleware.Auth, rbac.AdminOnly)
	admin.Get("/products", "admin.products.index", products.Index)
	admin.Get("/products/{id}", "admin.products.show", products.Show)
	admin.Post("/products", "admin.products.store", products.Store)
	admin.Post("/products/{id}", "admin.products.update", products.Update)
	admin.Post("/products/{id}/delete", "admin.products.delete", products.Delete)
}
