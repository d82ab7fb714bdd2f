package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/auth"
	orderControllers "github.com/junaidrashid-git/shop-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/shop-api/controllers/product"
	"github.com/junaidrashid-git/shop-api/services"
)

// Deps carries everything the HTTP handlers need.
type Deps struct {
	Auth        services.AuthService
	Catalog     services.CatalogService
	Carts       services.CartService
	Orders      services.OrderService
	Tokens      *auth.TokenIssuer
	Images      productcontroller.ImageStore
	Hub         *orderControllers.Hub
	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires every route group under /api.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	// public + bearer auth endpoints
	SetupAuthRoutes(api, d)

	// catalog: reads are public, writes need a bearer token
	SetupProductRoutes(api, d)

	// JWT-protected
	SetupCartRoutes(api, d)
	SetupOrderRoutes(api, d)

	// API-key protected
	SetupAdminRoutes(api, d)
}
