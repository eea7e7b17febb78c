package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/event/topic"
	"github.com/dshills/larek/internal/model"
	"github.com/dshills/larek/internal/view"
)

// registerHandlers connects intents to state mutations and change events to
// view updates.
func (app *Application) registerHandlers() error {
	type binding struct {
		topic   topic.Topic
		handler event.Handler
	}
	bindings := []binding{
		// Catalog and preview
		{events.TopicCatalogChanged, event.On(app.onCatalogChanged)},
		{events.TopicCardSelected, event.On(app.onCardSelected)},
		{events.TopicPreviewChanged, event.On(app.onPreviewChanged)},
		{events.TopicPreviewToggled, event.On(app.onPreviewToggled)},

		// Basket
		{events.TopicBasketOpened, event.HandlerFunc(app.onBasketOpened)},
		{events.TopicBasketChanged, event.On(app.onBasketChanged)},
		{events.TopicBasketCounterChanged, event.On(app.onCounterChanged)},
		{events.TopicProductRemoved, event.On(app.onProductRemoved)},

		// Checkout
		{events.TopicOrderOpened, event.HandlerFunc(app.onOrderOpened)},
		{events.TopicPaymentChanged, event.On(app.onPaymentChanged)},
		{events.TopicAddressChanged, event.On(app.onAddressChanged)},
		{events.TopicDeliveryErrorsChanged, event.On(app.onDeliveryErrors)},
		{events.TopicOrderSubmitted, event.HandlerFunc(app.onOrderSubmitted)},
		{events.TopicContactErrorsChanged, event.On(app.onContactErrors)},
		{events.TopicContactsSubmitted, event.HandlerFunc(app.onContactsSubmitted)},
		{events.TopicSuccessClosed, event.HandlerFunc(app.onSuccessClosed)},

		// Modal and status
		{events.TopicModalOpened, event.HandlerFunc(app.onModalOpened)},
		{events.TopicModalClosed, event.HandlerFunc(app.onModalClosed)},
		{events.TopicAPIRequestFailed, event.On(app.onRequestFailed)},
	}

	for _, b := range bindings {
		if _, err := app.subs.Subscribe(b.topic, b.handler); err != nil {
			return err
		}
	}

	_, err := app.subs.SubscribePattern(events.ContactFieldChanges, event.On(app.onContactFieldChanged))
	return err
}

// fetchCatalog loads the product list in the background.
func (app *Application) fetchCatalog() {
	runAsync(app, "products", app.client.Products, func(ctx context.Context, products []model.Product, err error) error {
		if err != nil {
			return app.requestFailed(ctx, "products", err)
		}
		app.page.SetStatus("")
		return app.state.SetCatalog(ctx, products)
	})
}

func (app *Application) onCatalogChanged(_ context.Context, e events.CatalogChanged) error {
	app.page.Update(view.PageViewOf(e.Products, len(app.state.Basket()), app.format))
	return nil
}

func (app *Application) onCardSelected(ctx context.Context, e events.CardSelected) error {
	p, ok := app.state.Product(e.ProductID)
	if !ok {
		app.logger.Warn("selected product not in catalog", slog.String("id", e.ProductID))
		return nil
	}
	return app.state.SetPreview(ctx, p)
}

// onPreviewChanged fetches the product detail, then shows it in the modal.
// A reply for a product that is no longer previewed is dropped.
func (app *Application) onPreviewChanged(_ context.Context, e events.PreviewChanged) error {
	id := e.Product.ID
	request := func(ctx context.Context) (model.Product, error) {
		return app.client.Product(ctx, id)
	}
	runAsync(app, "product", request, func(ctx context.Context, p model.Product, err error) error {
		if err != nil {
			return app.requestFailed(ctx, "product", err)
		}
		if app.state.Preview() != id {
			return nil
		}
		app.state.RefreshProduct(p)
		app.page.SetCatalog(view.PageViewOf(app.state.Catalog(), 0, app.format).Cards)
		app.preview.Update(view.PreviewViewOf(p, app.state.InBasket(p.ID), app.format))
		return app.modal.Open(ctx, app.preview)
	})
	return nil
}

func (app *Application) onPreviewToggled(ctx context.Context, e events.PreviewToggled) error {
	p, ok := app.state.Product(e.ProductID)
	if !ok {
		return nil
	}

	var err error
	switch {
	case app.state.InBasket(p.ID):
		err = app.state.RemoveFromBasket(ctx, p.ID)
	case p.Priceless():
		return nil
	default:
		err = app.state.AddToBasket(ctx, p)
	}
	if err != nil {
		return err
	}
	return app.modal.Close(ctx)
}

func (app *Application) onBasketOpened(ctx context.Context, _ any) error {
	app.basket.Update(app.basketView())
	return app.modal.Open(ctx, app.basket)
}

// onBasketChanged refreshes the counter too, since removal publishes only
// basket.changed.
func (app *Application) onBasketChanged(_ context.Context, e events.BasketChanged) error {
	total := model.SumPrices(e.Items)
	app.page.SetCounter(len(e.Items))
	app.basket.Update(view.BasketViewOf(e.Items, total, app.format))
	app.state.SetOrderTotal(total)
	return nil
}

func (app *Application) onCounterChanged(_ context.Context, e events.BasketCounterChanged) error {
	app.page.SetCounter(e.Count)
	return nil
}

func (app *Application) onProductRemoved(ctx context.Context, e events.ProductRemoved) error {
	return app.state.RemoveFromBasket(ctx, e.ProductID)
}

// onOrderOpened starts a checkout. The form opens without error text, like
// a fresh form; errors show once the buyer edits it.
func (app *Application) onOrderOpened(ctx context.Context, _ any) error {
	if len(app.state.Basket()) == 0 {
		return nil
	}
	if err := app.state.BeginCheckout(ctx); err != nil {
		return err
	}
	if err := app.state.SetOrderDeliveryField(ctx, ""); err != nil {
		return err
	}
	app.delivery.Reset(view.DeliveryView{})
	return app.modal.Open(ctx, app.delivery)
}

func (app *Application) onPaymentChanged(ctx context.Context, e events.PaymentChanged) error {
	app.delivery.SetPayment(e.Method)
	return app.state.SetPaymentMethod(ctx, e.Method)
}

func (app *Application) onAddressChanged(ctx context.Context, e events.AddressChanged) error {
	return app.state.SetOrderDeliveryField(ctx, e.Value)
}

func (app *Application) onDeliveryErrors(_ context.Context, e events.FormErrorsChanged) error {
	app.delivery.SetValidation(e.Valid(), e.Errors.Join(model.DeliveryFields...))
	return nil
}

func (app *Application) onOrderSubmitted(ctx context.Context, _ any) error {
	for _, field := range model.ContactFields {
		if err := app.state.SetOrderContactField(ctx, field, ""); err != nil {
			return err
		}
	}
	app.contacts.Reset(view.ContactsView{})
	return app.modal.Open(ctx, app.contacts)
}

func (app *Application) onContactFieldChanged(ctx context.Context, f event.Fields) error {
	return app.state.SetOrderContactField(ctx, f.String(events.FieldKey), f.String(events.ValueKey))
}

func (app *Application) onContactErrors(_ context.Context, e events.FormErrorsChanged) error {
	app.contacts.SetValidation(e.Valid(), e.Errors.Join(model.FieldPhone, model.FieldEmail))
	return nil
}

func (app *Application) onContactsSubmitted(ctx context.Context, _ any) error {
	err := app.placeOrder(ctx)
	switch {
	case errors.Is(err, ErrSubmitInFlight):
		app.logger.Debug("ignoring repeated submit")
		return nil
	case errors.Is(err, ErrInvalidOrder):
		app.logger.Warn("order not sent", slog.Any("delivery", app.state.DeliveryErrors()), slog.Any("contacts", app.state.ContactErrors()))
		return nil
	}
	return err
}

// placeOrder revalidates and sends the draft. Only one submission may be
// pending, and an invalid draft makes no request.
func (app *Application) placeOrder(ctx context.Context) error {
	if app.submitting {
		return ErrSubmitInFlight
	}

	deliveryOK, err := app.state.ValidateDelivery(ctx)
	if err != nil {
		return err
	}
	contactOK, err := app.state.ValidateContact(ctx)
	if err != nil {
		return err
	}
	if !deliveryOK || !contactOK {
		return ErrInvalidOrder
	}

	order := app.state.Order()
	total, err := app.state.Total()
	if err != nil {
		return app.requestFailed(ctx, "order", err)
	}
	order.Total = total

	app.submitting = true
	request := func(ctx context.Context) (model.OrderResult, error) {
		return app.client.PlaceOrder(ctx, order)
	}
	runAsync(app, "order", request, func(ctx context.Context, res model.OrderResult, err error) error {
		app.submitting = false
		if err != nil {
			return app.requestFailed(ctx, "order", err)
		}
		app.logger.Info("order placed", slog.String("id", res.ID), slog.String("total", res.Total.String()))

		if err := app.state.ClearBasket(ctx); err != nil {
			return err
		}
		app.state.ClearOrder()
		app.success.Update(view.SuccessViewOf(res.Total, app.format))
		if err := app.modal.Open(ctx, app.success); err != nil {
			return err
		}
		return app.pub.Emit(ctx, events.TopicOrderPlaced, events.OrderPlaced{Result: res})
	})
	return nil
}

func (app *Application) onSuccessClosed(ctx context.Context, _ any) error {
	return app.modal.Close(ctx)
}

func (app *Application) onModalOpened(context.Context, any) error {
	app.page.SetLocked(true)
	return nil
}

func (app *Application) onModalClosed(context.Context, any) error {
	app.page.SetLocked(false)
	return nil
}

func (app *Application) onRequestFailed(_ context.Context, e events.APIRequestFailed) error {
	app.page.SetStatus((&RequestError{Op: e.Op, Err: e.Err}).Error())
	return nil
}

func (app *Application) emitRequestFailed(ctx context.Context, op string, err error) error {
	return app.pub.Emit(ctx, events.TopicAPIRequestFailed, events.APIRequestFailed{Op: op, Err: err})
}

func (app *Application) basketView() view.BasketView {
	items := app.state.Basket()
	return view.BasketViewOf(items, model.SumPrices(items), app.format)
}
