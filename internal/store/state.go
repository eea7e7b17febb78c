package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/model"
)

// Form names carried by FormErrorsChanged.
const (
	FormDelivery = "order"
	FormContacts = "contacts"
)

// State is the storefront application state.
type State struct {
	mu sync.RWMutex

	catalog        []model.Product
	basket         []model.Product
	order          model.Order
	preview        string
	deliveryErrors model.FormErrors
	contactErrors  model.FormErrors

	pub      *event.Publisher
	logger   *slog.Logger
	validate *validator.Validate
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty State publishing on bus.
func New(bus event.Bus, opts ...Option) *State {
	s := &State{
		catalog:        []model.Product{},
		basket:         []model.Product{},
		order:          model.DefaultOrder(),
		deliveryErrors: model.FormErrors{},
		contactErrors:  model.FormErrors{},
		pub:            event.NewPublisher(bus, "store"),
		logger:         slog.New(slog.DiscardHandler),
		validate:       newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCatalog replaces the catalog and publishes catalog.changed.
func (s *State) SetCatalog(ctx context.Context, products []model.Product) error {
	s.mu.Lock()
	s.catalog = slices.Clone(products)
	snapshot := slices.Clone(s.catalog)
	s.mu.Unlock()

	return s.pub.Emit(ctx, events.TopicCatalogChanged, events.CatalogChanged{Products: snapshot})
}

// Catalog returns a copy of the catalog.
func (s *State) Catalog() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.catalog)
}

// Product looks up a catalog entry by id.
func (s *State) Product(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findProduct(s.catalog, id)
}

// RefreshProduct replaces the catalog and basket entries that share p's id.
// It publishes nothing.
func (s *State) RefreshProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.catalog {
		if s.catalog[i].ID == p.ID {
			s.catalog[i] = p
		}
	}
	for i := range s.basket {
		if s.basket[i].ID == p.ID {
			s.basket[i] = p
		}
	}
}

// AddToBasket appends p unless a product with the same id is already there.
// On change it publishes basket.counter.changed and then basket.changed.
func (s *State) AddToBasket(ctx context.Context, p model.Product) error {
	s.mu.Lock()
	if _, ok := findProduct(s.basket, p.ID); ok {
		s.mu.Unlock()
		return nil
	}
	s.basket = append(s.basket, p)
	items := slices.Clone(s.basket)
	s.mu.Unlock()

	return s.emitBasket(ctx, items)
}

// RemoveFromBasket drops the product with the given id and publishes
// basket.changed. The counter is refreshed by basket.changed subscribers.
func (s *State) RemoveFromBasket(ctx context.Context, id string) error {
	s.mu.Lock()
	s.basket = slices.DeleteFunc(s.basket, func(p model.Product) bool { return p.ID == id })
	items := slices.Clone(s.basket)
	s.mu.Unlock()

	return s.pub.Emit(ctx, events.TopicBasketChanged, events.BasketChanged{Items: items})
}

// InBasket reports whether a product with id is in the basket.
func (s *State) InBasket(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := findProduct(s.basket, id)
	return ok
}

// Basket returns a copy of the basket in insertion order.
func (s *State) Basket() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.basket)
}

// BasketTotal sums the basket prices, counting priceless products as zero.
func (s *State) BasketTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.SumPrices(s.basket)
}

// SetPreview records p as the previewed product and publishes preview.changed.
func (s *State) SetPreview(ctx context.Context, p model.Product) error {
	s.mu.Lock()
	s.preview = p.ID
	s.mu.Unlock()

	return s.pub.Emit(ctx, events.TopicPreviewChanged, events.PreviewChanged{Product: p})
}

// Preview returns the id of the previewed product, or "".
func (s *State) Preview() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// SetPaymentMethod sets the payment method and revalidates the delivery step.
func (s *State) SetPaymentMethod(ctx context.Context, m model.PaymentMethod) error {
	s.mu.Lock()
	s.order.Payment = m
	s.mu.Unlock()

	_, err := s.ValidateDelivery(ctx)
	return err
}

// SetOrderDeliveryField sets the delivery address and revalidates the delivery step.
func (s *State) SetOrderDeliveryField(ctx context.Context, value string) error {
	s.mu.Lock()
	s.order.Address = value
	s.mu.Unlock()

	_, err := s.ValidateDelivery(ctx)
	return err
}

// SetOrderContactField sets the email or phone and revalidates the contacts step.
// Other field names are logged and ignored.
func (s *State) SetOrderContactField(ctx context.Context, field, value string) error {
	s.mu.Lock()
	switch field {
	case model.FieldEmail:
		s.order.Email = value
	case model.FieldPhone:
		s.order.Phone = value
	default:
		s.mu.Unlock()
		s.logger.Warn("ignoring unknown contact field", "field", field)
		return nil
	}
	s.mu.Unlock()

	_, err := s.ValidateContact(ctx)
	return err
}

// ValidateDelivery recomputes the delivery error set, publishes it, and
// reports whether the step is valid.
func (s *State) ValidateDelivery(ctx context.Context) (bool, error) {
	s.mu.Lock()
	errs := validateStep(s.validate, s.order, deliveryStructFields)
	s.deliveryErrors = errs
	s.mu.Unlock()

	err := s.pub.Emit(ctx, events.TopicDeliveryErrorsChanged, events.FormErrorsChanged{
		Form:   FormDelivery,
		Errors: errs.Clone(),
	})
	return errs.Empty(), err
}

// ValidateContact recomputes the contacts error set, publishes it, and
// reports whether the step is valid.
func (s *State) ValidateContact(ctx context.Context) (bool, error) {
	s.mu.Lock()
	errs := validateStep(s.validate, s.order, contactStructFields)
	s.contactErrors = errs
	s.mu.Unlock()

	err := s.pub.Emit(ctx, events.TopicContactErrorsChanged, events.FormErrorsChanged{
		Form:   FormContacts,
		Errors: errs.Clone(),
	})
	return errs.Empty(), err
}

// BeginCheckout starts a checkout from the current basket: the draft gets the
// basket ids and total, and the payment method is cleared so the buyer picks
// one explicitly.
func (s *State) BeginCheckout(ctx context.Context) error {
	s.mu.Lock()
	s.order.Items = make([]string, 0, len(s.basket))
	for _, p := range s.basket {
		s.order.Items = append(s.order.Items, p.ID)
	}
	s.order.Total = model.SumPrices(s.basket)
	s.mu.Unlock()

	return s.SetPaymentMethod(ctx, model.PaymentNone)
}

// Total sums the catalog prices of the draft's items. Priceless items count
// as zero. An id missing from the catalog yields ErrUnknownProduct.
func (s *State) Total() (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, id := range s.order.Items {
		p, ok := findProduct(s.catalog, id)
		if !ok {
			return decimal.Zero, fmt.Errorf("order item %q: %w", id, ErrUnknownProduct)
		}
		total = total.Add(p.PriceOrZero())
	}
	return total, nil
}

// SetOrderTotal overrides the draft total.
func (s *State) SetOrderTotal(total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Total = total
}

// ClearBasket empties the basket and publishes basket.counter.changed and basket.changed.
func (s *State) ClearBasket(ctx context.Context) error {
	s.mu.Lock()
	s.basket = []model.Product{}
	s.mu.Unlock()

	return s.emitBasket(ctx, []model.Product{})
}

// emitBasket publishes basket.counter.changed and basket.changed for items.
// Both are published even if a subscriber of the first fails.
func (s *State) emitBasket(ctx context.Context, items []model.Product) error {
	return errors.Join(
		s.pub.Emit(ctx, events.TopicBasketCounterChanged, events.BasketCounterChanged{Count: len(items)}),
		s.pub.Emit(ctx, events.TopicBasketChanged, events.BasketChanged{Items: items}),
	)
}

// ClearOrder resets the draft and both error sets. It publishes nothing.
func (s *State) ClearOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = model.DefaultOrder()
	s.deliveryErrors = model.FormErrors{}
	s.contactErrors = model.FormErrors{}
}

// Order returns a copy of the draft.
func (s *State) Order() model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Clone()
}

// DeliveryErrors returns a copy of the delivery error set.
func (s *State) DeliveryErrors() model.FormErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deliveryErrors.Clone()
}

// ContactErrors returns a copy of the contacts error set.
func (s *State) ContactErrors() model.FormErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contactErrors.Clone()
}

func findProduct(products []model.Product, id string) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
