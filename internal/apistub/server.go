package apistub

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dshills/larek/internal/model"
)

// Server serves the commerce API over an in-memory catalog.
type Server struct {
	catalog     []model.Product
	imagePrefix string
	logger      *slog.Logger
	engine      *gin.Engine

	mu     sync.Mutex
	orders []Order
}

// Order is an accepted order as recorded by the stub.
type Order struct {
	ID    string
	Order model.Order
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithImagePrefix prepends p to every catalog image path.
func WithImagePrefix(p string) Option {
	return func(s *Server) {
		s.imagePrefix = p
	}
}

// orderRequest is the POST /order body. Validation runs through gin's
// validator binding.
type orderRequest struct {
	Payment string          `json:"payment" binding:"required,oneof=card cash"`
	Address string          `json:"address" binding:"required"`
	Email   string          `json:"email" binding:"required"`
	Phone   string          `json:"phone" binding:"required"`
	Items   []string        `json:"items" binding:"required,min=1"`
	Total   decimal.Decimal `json:"total"`
}

// New creates a stub server for catalog.
func New(catalog []model.Product, opts ...Option) *Server {
	s := &Server{
		catalog: catalog,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(recovery(s.logger), requestLogger(s.logger))

	r.GET("/product", s.listProducts)
	r.GET("/product/:id", s.getProduct)
	r.POST("/order", s.placeOrder)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound"})
	})

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Orders returns the accepted orders.
func (s *Server) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Server) listProducts(c *gin.Context) {
	items := make([]model.Product, 0, len(s.catalog))
	for _, p := range s.catalog {
		items = append(items, s.present(p))
	}
	c.JSON(http.StatusOK, model.ProductList{Total: len(items), Items: items})
}

func (s *Server) getProduct(c *gin.Context) {
	p, ok := s.find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound"})
		return
	}
	c.JSON(http.StatusOK, s.present(p))
}

func (s *Server) placeOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
		return
	}

	sum := decimal.Zero
	for _, id := range req.Items {
		p, ok := s.find(id)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product %s not found", id)})
			return
		}
		if p.Priceless() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product %s is not for sale", id)})
			return
		}
		sum = sum.Add(p.Price.Decimal)
	}
	if !sum.Equal(req.Total) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order total mismatch"})
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.orders = append(s.orders, Order{ID: id, Order: model.Order{
		Payment: model.PaymentMethod(req.Payment),
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Items:   req.Items,
		Total:   req.Total,
	}})
	s.mu.Unlock()

	c.JSON(http.StatusOK, model.OrderResult{ID: id, Total: sum})
}

func (s *Server) find(id string) (model.Product, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *Server) present(p model.Product) model.Product {
	p.Image = s.imagePrefix + p.Image
	return p
}

// bindMessage converts a binding error into the API's error text.
func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid order body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, messageForTag(strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return strings.Join(msgs, "; ")
}

func messageForTag(field, tag, param string) string {
	switch tag {
	case "required":
		return "Missing field " + field
	case "oneof":
		return "Field " + field + " must be one of: " + param
	case "min":
		return "No items selected"
	default:
		return "Invalid value of " + field
	}
}
