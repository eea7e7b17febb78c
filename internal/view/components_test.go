package view

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/event/topic"
	"github.com/dshills/larek/internal/format"
	"github.com/dshills/larek/internal/model"
	"github.com/dshills/larek/internal/renderer/backend"
)

type journal struct {
	topics   []topic.Topic
	payloads []any
}

func (j *journal) last() (topic.Topic, any) {
	if len(j.topics) == 0 {
		return "", nil
	}
	return j.topics[len(j.topics)-1], j.payloads[len(j.payloads)-1]
}

func newPublisher(t *testing.T) (*event.Publisher, *journal) {
	t.Helper()
	bus := event.NewBus()
	j := &journal{}
	_, err := bus.SubscribePattern(topic.Glob("**"), event.HandlerFunc(func(_ context.Context, e any) error {
		env := e.(event.Envelope)
		j.topics = append(j.topics, env.Topic)
		j.payloads = append(j.payloads, env.Payload)
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	return event.NewPublisher(bus, "view"), j
}

func press(t *testing.T, c Component, evs ...backend.Event) {
	t.Helper()
	for _, ev := range evs {
		if _, err := c.HandleKey(context.Background(), ev); err != nil {
			t.Fatalf("HandleKey(%+v): %v", ev, err)
		}
	}
}

var (
	enter = backend.KeyEvent(backend.KeyEnter)
	tab   = backend.KeyEvent(backend.KeyTab)
)

func catalog() []model.Product {
	return []model.Product{
		{ID: "a", Title: "HEX-леденец", Category: "другое", Price: model.Price(1450)},
		{ID: "b", Title: "Мамка-таймер", Category: "софт-скил"},
		{ID: "c", Title: "Фреймворк куки", Category: "дополнительное", Price: model.Price(2500)},
		{ID: "d", Title: "+1 час в сутках", Category: "софт-скил", Price: model.Price(750)},
	}
}

func TestConstructors_PanicOnNilPublisher(t *testing.T) {
	ctors := map[string]func(){
		"page":     func() { NewPage(nil) },
		"preview":  func() { NewPreview(nil) },
		"basket":   func() { NewBasket(nil) },
		"delivery": func() { NewDeliveryForm(nil) },
		"contacts": func() { NewContactsForm(nil) },
		"modal":    func() { NewModal(nil) },
		"success":  func() { NewSuccess(nil) },
	}
	for name, ctor := range ctors {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			ctor()
		})
	}
}

func TestViewModels(t *testing.T) {
	f := format.New()
	items := catalog()

	page := PageViewOf(items, 2, f)
	if page.Counter != 2 || len(page.Cards) != 4 {
		t.Fatalf("page = %+v", page)
	}
	if page.Cards[0].Price != "1,450 synapses" || page.Cards[1].Price != "Priceless" {
		t.Errorf("prices = %q, %q", page.Cards[0].Price, page.Cards[1].Price)
	}

	pv := PreviewViewOf(items[1], false, f)
	if !pv.Disabled || pv.Button != LabelBuy {
		t.Errorf("priceless preview = %+v", pv)
	}
	if pv := PreviewViewOf(items[0], true, f); pv.Disabled || pv.Button != LabelRemove {
		t.Errorf("in-basket preview = %+v", pv)
	}

	bv := BasketViewOf(items[:1], decimal.NewFromInt(1450), f)
	if !bv.CanCheckout || bv.Total != "1,450 synapses" || bv.Lines[0].Index != 1 {
		t.Errorf("basket = %+v", bv)
	}
	if bv := BasketViewOf(nil, decimal.Zero, f); bv.CanCheckout {
		t.Error("empty basket should not allow checkout")
	}

	if sv := SuccessViewOf(decimal.NewFromInt(3950), f); sv.Total != "3,950 synapses" {
		t.Errorf("success = %+v", sv)
	}
}

func TestPage_Navigation(t *testing.T) {
	pub, j := newPublisher(t)
	p := NewPage(pub, WithColumns(2))
	p.Update(PageViewOf(catalog(), 0, format.New()))

	press(t, p, backend.KeyEvent(backend.KeyRight), backend.KeyEvent(backend.KeyDown), enter)

	tp, payload := j.last()
	if tp != events.TopicCardSelected {
		t.Fatalf("topic = %q", tp)
	}
	if got := payload.(events.CardSelected).ProductID; got != "d" {
		t.Errorf("selected = %q, want d", got)
	}

	// Moves past the edge are ignored.
	press(t, p, backend.KeyEvent(backend.KeyDown), backend.KeyEvent(backend.KeyRight))
	if card, _ := p.Selected(); card.ID != "d" {
		t.Errorf("selection moved off grid: %q", card.ID)
	}

	press(t, p, backend.RuneEvent('b'))
	if tp, _ := j.last(); tp != events.TopicBasketOpened {
		t.Errorf("topic = %q, want basket.opened", tp)
	}
}

func TestPage_LockedIgnoresKeys(t *testing.T) {
	pub, j := newPublisher(t)
	p := NewPage(pub)
	p.Update(PageViewOf(catalog(), 0, format.New()))
	p.SetLocked(true)

	handled, err := p.HandleKey(context.Background(), enter)
	if handled || err != nil {
		t.Errorf("HandleKey = %v, %v", handled, err)
	}
	if len(j.topics) != 0 {
		t.Errorf("published %v while locked", j.topics)
	}
}

func TestPage_Draw(t *testing.T) {
	pub, _ := newPublisher(t)
	p := NewPage(pub)
	b := backend.NewNullBackend(90, 20)

	p.Draw(NewCanvas(b))
	if !b.Contains("Loading catalog") {
		t.Error("empty page should show loading text")
	}

	p.Update(PageViewOf(catalog(), 3, format.New()))
	p.SetStatus("Network down")
	p.Draw(NewCanvas(b))

	for _, want := range []string{"Basket [3]", "HEX-леденец", "1,450 synapses", "Priceless", "Network down"} {
		if !b.Contains(want) {
			t.Errorf("screen missing %q:\n%s", want, b.Text())
		}
	}

	p.SetStatus("")
	p.Draw(NewCanvas(b))
	if !b.Contains("b basket") {
		t.Error("footer should show key help")
	}
}

func TestPreview(t *testing.T) {
	pub, j := newPublisher(t)
	pv := NewPreview(pub)
	f := format.New()

	pv.Update(PreviewViewOf(catalog()[1], false, f))
	press(t, pv, enter)
	if len(j.topics) != 0 {
		t.Errorf("disabled button published %v", j.topics)
	}

	pv.Update(PreviewViewOf(catalog()[0], false, f))
	press(t, pv, enter)
	tp, payload := j.last()
	if tp != events.TopicPreviewToggled || payload.(events.PreviewToggled).ProductID != "a" {
		t.Errorf("got %q %+v", tp, payload)
	}

	b := backend.NewNullBackend(60, 14)
	pv.Draw(NewCanvas(b))
	if !b.Contains("[ Buy ]") || !b.Contains("HEX-леденец") {
		t.Errorf("preview draw:\n%s", b.Text())
	}
}

func TestBasket(t *testing.T) {
	pub, j := newPublisher(t)
	bk := NewBasket(pub)
	f := format.New()

	bk.Update(BasketViewOf(nil, decimal.Zero, f))
	press(t, bk, enter, backend.RuneEvent('d'))
	if len(j.topics) != 0 {
		t.Errorf("empty basket published %v", j.topics)
	}

	b := backend.NewNullBackend(60, 10)
	bk.Draw(NewCanvas(b))
	if !b.Contains(EmptyBasketText) {
		t.Errorf("empty basket draw:\n%s", b.Text())
	}

	items := catalog()
	bk.Update(BasketViewOf([]model.Product{items[0], items[3]}, decimal.NewFromInt(2200), f))
	press(t, bk, backend.KeyEvent(backend.KeyDown), backend.KeyEvent(backend.KeyDelete))
	tp, payload := j.last()
	if tp != events.TopicProductRemoved || payload.(events.ProductRemoved).ProductID != "d" {
		t.Errorf("got %q %+v", tp, payload)
	}

	press(t, bk, enter)
	if tp, _ := j.last(); tp != events.TopicOrderOpened {
		t.Errorf("topic = %q, want order.opened", tp)
	}

	// Shrinking the list keeps the selection in range.
	bk.Update(BasketViewOf(items[:1], decimal.NewFromInt(1450), f))
	press(t, bk, backend.RuneEvent('d'))
	if _, payload := j.last(); payload.(events.ProductRemoved).ProductID != "a" {
		t.Errorf("removed %+v", payload)
	}

	bk.Draw(NewCanvas(b))
	if !b.Contains(" 1  HEX-леденец") || !b.Contains("1,450 synapses") {
		t.Errorf("basket draw:\n%s", b.Text())
	}
}

func TestDeliveryForm(t *testing.T) {
	pub, j := newPublisher(t)
	df := NewDeliveryForm(pub)
	df.Reset(DeliveryView{})

	// Choose cash.
	press(t, df, backend.KeyEvent(backend.KeyRight), enter)
	tp, payload := j.last()
	if tp != events.TopicPaymentChanged || payload.(events.PaymentChanged).Method != model.PaymentCash {
		t.Fatalf("got %q %+v", tp, payload)
	}

	// Type the address: one event per keystroke.
	j.topics, j.payloads = nil, nil
	press(t, df, tab, backend.RuneEvent('M'), backend.RuneEvent('S'), backend.KeyEvent(backend.KeyBackspace))
	if len(j.topics) != 3 {
		t.Fatalf("address events = %v", j.topics)
	}
	if _, payload := j.last(); payload.(events.AddressChanged).Value != "M" {
		t.Errorf("last address = %+v", payload)
	}

	// Submit is ignored while invalid.
	press(t, df, enter, enter)
	if tp, _ := j.last(); tp == events.TopicOrderSubmitted {
		t.Error("invalid form submitted")
	}

	df.SetValidation(true, "")
	press(t, df, enter)
	if tp, _ := j.last(); tp != events.TopicOrderSubmitted {
		t.Errorf("topic = %q, want order.submitted", tp)
	}

	df.SetPayment(model.PaymentCash)
	df.SetValidation(false, "Enter a delivery address")
	b := backend.NewNullBackend(60, 12)
	df.Draw(NewCanvas(b))
	if !b.Contains("Enter a delivery address") || !b.Contains(LabelCash) {
		t.Errorf("delivery draw:\n%s", b.Text())
	}
	if v := df.View(); v.Payment != model.PaymentCash || v.Address != "M" || v.Valid {
		t.Errorf("View = %+v", v)
	}
}

func TestContactsForm_TriggerFields(t *testing.T) {
	pub, j := newPublisher(t)
	cf := NewContactsForm(pub)
	cf.Reset(ContactsView{})

	press(t, cf, backend.RuneEvent('a'))
	tp, payload := j.last()
	if tp != "contacts.email.changed" {
		t.Fatalf("topic = %q", tp)
	}
	fields := payload.(event.Fields)
	if fields.String(events.FieldKey) != "email" || fields.String(events.ValueKey) != "a" {
		t.Errorf("fields = %v", fields)
	}
	if !events.ContactFieldChanges.Match(tp) {
		t.Error("contacts pattern should match the field topic")
	}

	press(t, cf, enter, backend.RuneEvent('7'))
	tp, payload = j.last()
	if tp != "contacts.phone.changed" || payload.(event.Fields).String(events.ValueKey) != "7" {
		t.Errorf("got %q %v", tp, payload)
	}

	press(t, cf, enter, enter)
	if tp, _ := j.last(); tp == events.TopicContactsSubmitted {
		t.Error("invalid form submitted")
	}
	cf.SetValidation(true, "")
	press(t, cf, enter)
	if tp, _ := j.last(); tp != events.TopicContactsSubmitted {
		t.Errorf("topic = %q, want contacts.submitted", tp)
	}
}

func TestModal(t *testing.T) {
	pub, j := newPublisher(t)
	m := NewModal(pub)
	ctx := context.Background()

	if err := m.Close(ctx); err != nil || len(j.topics) != 0 {
		t.Errorf("closing a closed modal: %v, %v", err, j.topics)
	}

	s := NewSuccess(pub)
	s.Update(SuccessView{Total: "3,950 synapses"})
	if err := m.Open(ctx, s); err != nil {
		t.Fatal(err)
	}
	tp, payload := j.last()
	if tp != events.TopicModalOpened || payload.(events.ModalToggled).Content != "success" {
		t.Errorf("got %q %+v", tp, payload)
	}
	if !m.IsOpen() || !m.Showing(s) {
		t.Error("modal should show success")
	}

	b := backend.NewNullBackend(80, 24)
	m.Draw(NewCanvas(b))
	if !b.Contains("Charged 3,950 synapses") {
		t.Errorf("modal draw:\n%s", b.Text())
	}

	press(t, m, enter)
	if tp, _ := j.last(); tp != events.TopicSuccessClosed {
		t.Errorf("topic = %q, want success.closed", tp)
	}

	press(t, m, backend.KeyEvent(backend.KeyEscape))
	if tp, _ := j.last(); tp != events.TopicModalClosed || m.IsOpen() {
		t.Errorf("Esc: topic = %q, open = %v", tp, m.IsOpen())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic opening without content")
		}
	}()
	_ = m.Open(ctx, nil)
}

func TestScreen_Routing(t *testing.T) {
	pub, j := newPublisher(t)
	page := NewPage(pub)
	page.Update(PageViewOf(catalog(), 0, format.New()))
	modal := NewModal(pub)
	b := backend.NewNullBackend(100, 30)
	s := NewScreen(b, page, modal)
	ctx := context.Background()

	if _, err := s.HandleKey(ctx, enter); err != nil {
		t.Fatal(err)
	}
	if tp, _ := j.last(); tp != events.TopicCardSelected {
		t.Errorf("page key: topic = %q", tp)
	}

	pv := NewPreview(pub)
	pv.Update(PreviewViewOf(catalog()[0], false, format.New()))
	_ = modal.Open(ctx, pv)
	if _, err := s.HandleKey(ctx, enter); err != nil {
		t.Fatal(err)
	}
	if tp, _ := j.last(); tp != events.TopicPreviewToggled {
		t.Errorf("modal key: topic = %q", tp)
	}

	s.Draw()
	if b.ShowCount() != 1 || !b.Contains("Esc to close") {
		t.Errorf("draw: shows=%d\n%s", b.ShowCount(), b.Text())
	}
}

func TestNewScreen_Panics(t *testing.T) {
	pub, _ := newPublisher(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil backend")
		}
	}()
	NewScreen(nil, NewPage(pub), NewModal(pub))
}
