package response

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/shopspring/decimal"
)

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AbsoluteURL resolves a stored upload path against the request's scheme
// and host.
func AbsoluteURL(c *gin.Context, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + path
}

type ProductView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	SellerID    uint      `json:"seller"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func Product(c *gin.Context, p models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		Stock:       p.Stock,
		Image:       AbsoluteURL(c, p.Image),
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func Products(c *gin.Context, products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, Product(c, p))
	}
	return out
}

type CartProductView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type CartItemView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Product   CartProductView `json:"product"`
	Quantity  int             `json:"quantity"`
	Subtotal  string          `json:"subtotal"`
	AddedAt   time.Time       `json:"added_at"`
}

type CartView struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user"`
	Items     []CartItemView `json:"items"`
	Total     string         `json:"total"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func Cart(c *gin.Context, cart models.Cart) CartView {
	items := make([]CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product: CartProductView{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: Money(item.Product.Price),
				Image: AbsoluteURL(c, item.Product.Image),
			},
			Quantity: item.Quantity,
			Subtotal: Money(item.Subtotal()),
			AddedAt:  item.AddedAt,
		})
	}
	return CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		Total:     Money(cart.Total()),
		UpdatedAt: cart.UpdatedAt,
	}
}

type OrderItemView struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type OrderView struct {
	ID                    uint                  `json:"id"`
	UserID                uint                  `json:"user"`
	Items                 []OrderItemView       `json:"items"`
	TotalPrice            string                `json:"total_price"`
	Status                models.OrderStatus    `json:"status"`
	PaymentMethod         *models.PaymentMethod `json:"payment_method"`
	DeliveryLocation      *string               `json:"delivery_location"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time"`
	CreatedAt             time.Time             `json:"created_at"`
}

func Order(o models.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   Money(item.UnitPrice),
			Quantity:    item.Quantity,
			Subtotal:    Money(item.Subtotal()),
		})
	}
	return OrderView{
		ID:                    o.ID,
		UserID:                o.UserID,
		Items:                 items,
		TotalPrice:            Money(o.TotalPrice),
		Status:                o.Status,
		PaymentMethod:         o.PaymentMethod,
		DeliveryLocation:      o.DeliveryLocation,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		CreatedAt:             o.CreatedAt,
	}
}

func Orders(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, Order(o))
	}
	return out
}
