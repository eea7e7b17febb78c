package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/larek/internal/apistub"
	"github.com/dshills/larek/internal/config"
	"github.com/dshills/larek/internal/model"
	"github.com/dshills/larek/internal/renderer/backend"
	"github.com/dshills/larek/internal/view"
)

// lockedBuffer collects log output written from request goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testCatalog() []model.Product {
	return []model.Product{
		{ID: "p-1", Title: "Frontend pill", Category: "soft-skill", Image: "/pill.svg", Price: model.Price(750)},
		{ID: "p-2", Title: "Backend cap", Category: "hard-skill", Image: "/cap.svg", Price: model.Price(1450)},
		{ID: "p-3", Title: "Mythical pearl", Category: "other", Image: "/pearl.svg"},
	}
}

type testApp struct {
	*Application
	backend *backend.NullBackend
	stub    *apistub.Server
	log     *lockedBuffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	stub := apistub.New(testCatalog())
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	return newTestAppWith(t, srv.URL, stub)
}

func newTestAppWith(t *testing.T, baseURL string, stub *apistub.Server) *testApp {
	t.Helper()

	cfg := config.Defaults()
	cfg.API.BaseURL = baseURL
	cfg.API.CDNURL = "http://cdn.test"
	cfg.API.Timeout = 5 * time.Second

	nb := backend.NewNullBackend(100, 40)
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	app, err := New(Options{Config: &cfg, Backend: nb, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.shutdown)
	return &testApp{Application: app, backend: nb, stub: stub, log: buf}
}

// runTask waits for one request completion and runs it the way the event
// loop would.
func (ta *testApp) runTask(t *testing.T) {
	t.Helper()
	select {
	case tk := <-ta.tasks:
		if err := tk(ta.ctx); err != nil {
			t.Fatalf("completion error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a request to complete")
	}
}

func (ta *testApp) press(t *testing.T, events ...backend.Event) {
	t.Helper()
	for _, ev := range events {
		if err := ta.handleKeyEvent(ev); err != nil {
			t.Fatalf("handleKeyEvent(%+v) error = %v", ev, err)
		}
	}
}

func (ta *testApp) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		ta.press(t, backend.RuneEvent(r))
	}
}

func (ta *testApp) loadCatalog(t *testing.T) {
	t.Helper()
	ta.fetchCatalog()
	ta.runTask(t)
}

// openPreview selects the highlighted card and completes the detail fetch.
func (ta *testApp) openPreview(t *testing.T) {
	t.Helper()
	ta.press(t, backend.KeyEvent(backend.KeyEnter))
	ta.runTask(t)
}

var (
	enter = backend.KeyEvent(backend.KeyEnter)
	tab   = backend.KeyEvent(backend.KeyTab)
)

func TestNew_UsesGivenConfigAndBackend(t *testing.T) {
	ta := newTestApp(t)

	if ta.Config().API.CDNURL != "http://cdn.test" {
		t.Errorf("Config() = %+v", ta.Config().API)
	}
	if ta.EventBus() == nil || ta.State() == nil || ta.Screen() == nil || ta.Plugins() == nil || ta.Logger() == nil {
		t.Fatal("accessors should return the wired components")
	}
	if ta.IsRunning() {
		t.Error("IsRunning() before Run should be false")
	}
}

func TestNew_InvalidConfigFile(t *testing.T) {
	_, err := New(Options{
		ConfigOptions: []config.Option{config.WithFile("/does/not/exist.yaml")},
		Backend:       backend.NewNullBackend(10, 10),
		Logger:        slog.New(slog.DiscardHandler),
	})

	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
}

func TestFetchCatalog(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	if got := len(ta.State().Catalog()); got != 3 {
		t.Fatalf("catalog has %d products, want 3", got)
	}
	page := ta.page.View()
	if len(page.Cards) != 3 || page.Counter != 0 {
		t.Fatalf("page view = %+v", page)
	}
	if page.Cards[0].ID != "p-1" || page.Cards[0].Title != "Frontend pill" {
		t.Errorf("first card = %+v", page.Cards[0])
	}
	if page.Cards[2].Price != ta.format.Price(decimal.NullDecimal{}) {
		t.Errorf("priceless card price = %q", page.Cards[2].Price)
	}

	ta.screen.Draw()
	if !ta.backend.Contains("Frontend pill") {
		t.Errorf("catalog not drawn:\n%s", ta.backend.Text())
	}
}

func TestFetchCatalog_FailureSetsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"catalog offline"}`))
	}))
	t.Cleanup(srv.Close)
	ta := newTestAppWith(t, srv.URL, nil)

	ta.loadCatalog(t)

	if len(ta.State().Catalog()) != 0 {
		t.Error("failed fetch should leave the catalog empty")
	}
	status := ta.page.Status()
	if !strings.HasPrefix(status, "products: ") {
		t.Errorf("status = %q", status)
	}
	if !strings.Contains(ta.log.String(), "request failed") {
		t.Errorf("failure not logged:\n%s", ta.log.String())
	}
}

func TestSelectCard_OpensPreview(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	ta.openPreview(t)

	if ta.State().Preview() != "p-1" {
		t.Errorf("Preview() = %q", ta.State().Preview())
	}
	if !ta.modal.Showing(ta.preview) {
		t.Fatal("preview should be shown in the modal")
	}
	if !ta.page.Locked() {
		t.Error("page should be locked while the modal is open")
	}

	pv := ta.preview.View()
	if pv.ID != "p-1" || pv.Button != view.LabelBuy || pv.Disabled {
		t.Errorf("preview view = %+v", pv)
	}
	if !strings.HasPrefix(pv.Image, "http://cdn.test") {
		t.Errorf("image = %q, want a CDN url", pv.Image)
	}
}

func TestSelectCard_StaleReplyDropped(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	ta.press(t, enter)
	if err := ta.State().SetPreview(context.Background(), ta.State().Catalog()[1]); err != nil {
		t.Fatal(err)
	}

	// Replies may arrive in either order; only the p-2 one may open the modal.
	ta.runTask(t)
	ta.runTask(t)

	if !ta.modal.Showing(ta.preview) || ta.preview.View().ID != "p-2" {
		t.Errorf("preview = %+v, want p-2", ta.preview.View())
	}
}

func TestPreviewToggle_AddsAndRemoves(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	ta.openPreview(t)
	ta.press(t, enter)

	if !ta.State().InBasket("p-1") {
		t.Fatal("p-1 should be in the basket")
	}
	if ta.modal.IsOpen() || ta.page.Locked() {
		t.Error("toggling should close the modal and unlock the page")
	}
	if ta.page.View().Counter != 1 {
		t.Errorf("counter = %d, want 1", ta.page.View().Counter)
	}

	ta.openPreview(t)
	if ta.preview.View().Button != view.LabelRemove {
		t.Errorf("button = %q, want %q", ta.preview.View().Button, view.LabelRemove)
	}
	ta.press(t, enter)

	if ta.State().InBasket("p-1") || ta.page.View().Counter != 0 {
		t.Error("second toggle should remove the product")
	}
}

func TestPreviewToggle_PricelessIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	ta.press(t, backend.KeyEvent(backend.KeyEnd))
	ta.openPreview(t)

	if !ta.preview.View().Disabled {
		t.Fatal("priceless preview should disable the button")
	}
	ta.press(t, enter)

	if len(ta.State().Basket()) != 0 {
		t.Error("priceless product added to the basket")
	}
	if !ta.modal.IsOpen() {
		t.Error("disabled button should leave the modal open")
	}
}

func TestBasket_OpenAndRemove(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)
	ctx := context.Background()
	for _, p := range ta.State().Catalog()[:2] {
		if err := ta.State().AddToBasket(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	ta.press(t, backend.RuneEvent('b'))

	if !ta.modal.Showing(ta.basket) {
		t.Fatal("basket should be shown in the modal")
	}
	bv := ta.basket.View()
	if len(bv.Lines) != 2 || !bv.CanCheckout {
		t.Fatalf("basket view = %+v", bv)
	}
	if bv.Total != ta.format.Amount(decimal.NewFromInt(2200)) {
		t.Errorf("total = %q", bv.Total)
	}

	ta.press(t, backend.RuneEvent('d'))

	if ta.State().InBasket("p-1") || !ta.State().InBasket("p-2") {
		t.Errorf("basket = %v, want only p-2", ta.State().Basket())
	}
	bv = ta.basket.View()
	if len(bv.Lines) != 1 || bv.Total != ta.format.Amount(decimal.NewFromInt(1450)) {
		t.Errorf("basket view after removal = %+v", bv)
	}
	if ta.page.View().Counter != 1 {
		t.Errorf("counter = %d, want 1", ta.page.View().Counter)
	}
	if !ta.modal.Showing(ta.basket) {
		t.Error("removal should keep the basket open")
	}
}

func TestOrderOpened_EmptyBasketIgnored(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.onOrderOpened(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if ta.modal.IsOpen() {
		t.Error("checkout should not start with an empty basket")
	}
}

func TestCheckout_DeliveryValidation(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)
	if err := ta.State().AddToBasket(context.Background(), ta.State().Catalog()[0]); err != nil {
		t.Fatal(err)
	}

	ta.press(t, backend.RuneEvent('b'), enter)

	if !ta.modal.Showing(ta.delivery) {
		t.Fatal("delivery form should be shown")
	}
	if dv := ta.delivery.View(); dv.Valid || dv.Errors != "" {
		t.Errorf("fresh delivery form = %+v", dv)
	}
	if got := ta.State().Order().Items; len(got) != 1 || got[0] != "p-1" {
		t.Errorf("draft items = %v", got)
	}

	// Choose cash, then fill the address.
	ta.press(t, tab, enter)
	if ta.State().Order().Payment != model.PaymentCash {
		t.Errorf("payment = %q", ta.State().Order().Payment)
	}
	dv := ta.delivery.View()
	if dv.Valid || !strings.Contains(dv.Errors, "Enter a delivery address") {
		t.Errorf("delivery view without address = %+v", dv)
	}

	ta.press(t, tab)
	ta.typeText(t, "Main-1")

	dv = ta.delivery.View()
	if !dv.Valid || dv.Errors != "" || dv.Payment != model.PaymentCash {
		t.Errorf("delivery view = %+v", dv)
	}
	if ta.State().Order().Address != "Main-1" {
		t.Errorf("address = %q", ta.State().Order().Address)
	}
}

func TestCheckout_PlacesOrder(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)

	ta.openPreview(t)
	ta.press(t, enter)
	ta.press(t, backend.RuneEvent('b'), enter)

	// Delivery: card, address, submit.
	ta.press(t, enter, tab, tab)
	ta.typeText(t, "Main-1")
	ta.press(t, enter, enter)

	if !ta.modal.Showing(ta.contacts) {
		t.Fatal("contacts form should follow the delivery form")
	}

	ta.typeText(t, "buyer@example.com")
	ta.press(t, enter)
	ta.typeText(t, "+79001234567")
	if !ta.contacts.View().Valid {
		t.Fatalf("contacts view = %+v", ta.contacts.View())
	}
	ta.press(t, enter, enter)

	// A second submit while the first is pending is ignored.
	ta.press(t, enter)
	if !ta.submitting {
		t.Fatal("submission should be in flight")
	}

	ta.runTask(t)

	orders := ta.stub.Orders()
	if len(orders) != 1 {
		t.Fatalf("stub received %d orders, want 1", len(orders))
	}
	got := orders[0].Order
	if got.Payment != model.PaymentCard || got.Address != "Main-1" || got.Email != "buyer@example.com" || got.Phone != "+79001234567" {
		t.Errorf("order = %+v", got)
	}
	if !got.Total.Equal(decimal.NewFromInt(750)) {
		t.Errorf("order total = %s", got.Total)
	}

	if !ta.modal.Showing(ta.success) {
		t.Fatal("success should be shown after the order")
	}
	if want := "Charged " + ta.format.Amount(decimal.NewFromInt(750)); ta.success.Message() != want {
		t.Errorf("success message = %q, want %q", ta.success.Message(), want)
	}
	if len(ta.State().Basket()) != 0 || ta.page.View().Counter != 0 {
		t.Error("basket should be cleared after the order")
	}
	if ta.State().Order().Address != "" {
		t.Error("draft should be reset after the order")
	}
	if ta.submitting {
		t.Error("submit guard should be released")
	}

	ta.press(t, enter)
	if ta.modal.IsOpen() || ta.page.Locked() {
		t.Error("closing success should unlock the page")
	}
}

func TestPlaceOrder_InFlight(t *testing.T) {
	ta := newTestApp(t)
	ta.submitting = true

	if err := ta.placeOrder(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("placeOrder() error = %v, want ErrSubmitInFlight", err)
	}
	if err := ta.onContactsSubmitted(context.Background(), nil); err != nil {
		t.Errorf("repeated submit should be swallowed, got %v", err)
	}
}

func TestPlaceOrder_RejectedKeepsBasket(t *testing.T) {
	stub := apistub.New(testCatalog())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Out of stock"}`))
			return
		}
		stub.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	ta := newTestAppWith(t, srv.URL, stub)

	ta.loadCatalog(t)
	ctx := context.Background()
	if err := ta.State().AddToBasket(ctx, ta.State().Catalog()[0]); err != nil {
		t.Fatal(err)
	}
	fillDraft(t, ta)

	if err := ta.placeOrder(ctx); err != nil {
		t.Fatal(err)
	}
	ta.runTask(t)

	if len(ta.stub.Orders()) != 0 {
		t.Error("a rejected order should not be recorded")
	}
	if !ta.State().InBasket("p-1") {
		t.Error("a rejected order should keep the basket")
	}
	if status := ta.page.Status(); !strings.HasPrefix(status, "order: ") || !strings.Contains(status, "Out of stock") {
		t.Errorf("status = %q", status)
	}
	if ta.submitting {
		t.Error("submit guard should be released after a failure")
	}
}

func TestCheckout_EmptyAddressSendsNothing(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCatalog(t)
	if err := ta.State().AddToBasket(context.Background(), ta.State().Catalog()[0]); err != nil {
		t.Fatal(err)
	}

	// Choose card, skip the address and press submit.
	ta.press(t, backend.RuneEvent('b'), enter)
	ta.press(t, enter, tab, tab, enter, enter)

	if !ta.modal.Showing(ta.delivery) {
		t.Fatal("an invalid delivery step must not advance")
	}
	if dv := ta.delivery.View(); dv.Valid || !strings.Contains(dv.Errors, "Enter a delivery address") {
		t.Errorf("delivery view = %+v", dv)
	}

	// A submit intent that bypasses the forms is revalidated.
	ctx := context.Background()
	if err := ta.placeOrder(ctx); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("placeOrder() error = %v, want ErrInvalidOrder", err)
	}
	if err := ta.onContactsSubmitted(ctx, nil); err != nil {
		t.Fatalf("onContactsSubmitted() error = %v", err)
	}

	ta.pending.Wait()
	if n := len(ta.tasks); n != 0 {
		t.Errorf("%d requests completed, want none", n)
	}
	if len(ta.stub.Orders()) != 0 {
		t.Error("an invalid draft reached the API")
	}
	if ta.submitting {
		t.Error("submit guard should not be held")
	}
	if !strings.Contains(ta.log.String(), "order not sent") {
		t.Errorf("rejected submit not logged:\n%s", ta.log.String())
	}
}

// fillDraft starts a checkout and fills every draft field.
func fillDraft(t *testing.T, ta *testApp) {
	t.Helper()
	ctx := context.Background()
	st := ta.State()
	for _, err := range []error{
		st.BeginCheckout(ctx),
		st.SetPaymentMethod(ctx, model.PaymentCash),
		st.SetOrderDeliveryField(ctx, "Main-1"),
		st.SetOrderContactField(ctx, model.FieldEmail, "buyer@example.com"),
		st.SetOrderContactField(ctx, model.FieldPhone, "+79001234567"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestHandleKeyEvent_Quit(t *testing.T) {
	ta := newTestApp(t)

	if err := ta.handleKeyEvent(backend.KeyEvent(backend.KeyCtrlC)); !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl+C error = %v", err)
	}
	if err := ta.handleKeyEvent(backend.RuneEvent('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("q error = %v", err)
	}

	ev := backend.RuneEvent('c')
	ev.Mod = backend.ModCtrl
	if err := ta.handleKeyEvent(ev); !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl+c rune error = %v", err)
	}
}

func TestHandleKeyEvent_QuitIgnoredInModal(t *testing.T) {
	ta := newTestApp(t)
	ta.press(t, backend.RuneEvent('b'))

	if err := ta.handleKeyEvent(backend.RuneEvent('q')); err != nil {
		t.Errorf("q in an open modal error = %v", err)
	}
	ta.press(t, backend.KeyEvent(backend.KeyEscape))
	if ta.modal.IsOpen() {
		t.Error("Esc should close the modal")
	}
}

func TestPluginHookSeesBasket(t *testing.T) {
	ta := newTestApp(t)
	err := ta.Plugins().LoadString(context.Background(), "audit.lua", `
		larek.on("basket.changed", function(p)
			larek.log("info", "basket", {count = #p.items})
		end)
	`)
	if err != nil {
		t.Fatal(err)
	}
	ta.loadCatalog(t)

	ta.openPreview(t)
	ta.press(t, enter)

	out := ta.log.String()
	if !strings.Contains(out, "msg=basket") || !strings.Contains(out, "count=1") {
		t.Errorf("hook output missing:\n%s", out)
	}
}

func TestRun_QuitKey(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.PostEvent(backend.RuneEvent('q'))

	errc := make(chan error, 1)
	go func() { errc <- ta.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if ta.IsRunning() {
		t.Error("IsRunning() after Run returned")
	}
}

func TestRun_Shutdown(t *testing.T) {
	ta := newTestApp(t)

	errc := make(chan error, 1)
	go func() { errc <- ta.Run() }()
	ta.Shutdown()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestRequestError(t *testing.T) {
	base := errors.New("timeout")
	err := &RequestError{Op: "product", Err: base}

	if err.Error() != "product: timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("RequestError should unwrap")
	}

	ie := &InitError{Component: "backend", Err: base}
	if ie.Error() != "init backend: timeout" || !errors.Is(ie, base) {
		t.Errorf("InitError = %q", ie.Error())
	}
}
