// Package app wires the storefront together and runs its event loop.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/dshills/larek/internal/api"
	"github.com/dshills/larek/internal/config"
	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/format"
	"github.com/dshills/larek/internal/plugin"
	"github.com/dshills/larek/internal/renderer/backend"
	"github.com/dshills/larek/internal/store"
	"github.com/dshills/larek/internal/view"
)

// Application is the storefront: state, views, API client and plugin host
// driven by one event loop goroutine.
type Application struct {
	// Core infrastructure
	config    *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	bus       event.Bus
	pub       *event.Publisher
	subs      *event.Subscriber

	// Domain
	state   *store.State
	client  *api.Client
	format  *format.Formatter
	plugins *plugin.Host

	// Views
	backend  backend.Backend
	screen   *view.Screen
	page     *view.Page
	modal    *view.Modal
	preview  *view.Preview
	basket   *view.Basket
	delivery *view.DeliveryForm
	contacts *view.ContactsForm
	success  *view.Success

	// Loop
	ctx        context.Context
	cancel     context.CancelFunc
	input      chan backend.Event
	tasks      chan task
	pending    sync.WaitGroup
	submitting bool

	// State
	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	opts Options
}

// task is a completion posted back to the event loop.
type task func(ctx context.Context) error

// Options configures the application.
type Options struct {
	// Config is used as is when set. Otherwise the configuration is loaded
	// with ConfigOptions.
	Config *config.Config

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option

	// Backend replaces the tcell terminal.
	Backend backend.Backend

	// HTTPClient replaces the API client's HTTP client.
	HTTPClient *http.Client

	// Logger replaces the file logger built from the configuration.
	Logger *slog.Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:  opts,
		done:  make(chan struct{}),
		input: make(chan backend.Event, 16),
		tasks: make(chan task, 16),
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	if err := app.bootstrap(); err != nil {
		app.cancel()
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	app.config = app.opts.Config
	if app.config == nil {
		cfg, err := config.Load(app.opts.ConfigOptions...)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.config = cfg
	}
	cfg := app.config

	// 2. Logger
	app.logger = app.opts.Logger
	if app.logger == nil {
		f, err := OpenLogFile(cfg.Log.File)
		if err != nil {
			return &InitError{Component: "log", Err: err}
		}
		app.logCloser = f
		app.logger = NewLogger(LoggerConfig{
			Level:  ParseLogLevel(cfg.Log.Level),
			Format: cfg.Log.Format,
			Output: f,
		})
	}

	// 3. Event bus
	app.bus = event.NewBus(
		event.WithLogger(WithComponent(app.logger, "bus")),
		event.WithSource("app"),
	)
	app.pub = event.NewPublisher(app.bus, "app")
	app.subs = event.NewSubscriber(app.bus)

	// 4. State, formatting and API client
	app.state = store.New(app.bus, store.WithLogger(WithComponent(app.logger, "store")))
	app.format = format.New(
		format.WithLocale(cfg.UI.Locale),
		format.WithUnit(cfg.UI.Currency),
		format.WithPriceless(cfg.UI.Priceless),
	)
	app.client = api.New(cfg.API.BaseURL, cfg.API.CDNURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithHTTPClient(app.opts.HTTPClient),
		api.WithLogger(WithComponent(app.logger, "api")),
	)

	// 5. Terminal and views
	app.backend = app.opts.Backend
	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		app.backend = term
	}
	app.page = view.NewPage(event.NewPublisher(app.bus, "view.page"), view.WithColumns(cfg.UI.Columns))
	app.modal = view.NewModal(event.NewPublisher(app.bus, "view.modal"))
	app.preview = view.NewPreview(event.NewPublisher(app.bus, "view.preview"))
	app.basket = view.NewBasket(event.NewPublisher(app.bus, "view.basket"))
	app.delivery = view.NewDeliveryForm(event.NewPublisher(app.bus, "view.order"))
	app.contacts = view.NewContactsForm(event.NewPublisher(app.bus, "view.contacts"))
	app.success = view.NewSuccess(event.NewPublisher(app.bus, "view.success"))
	app.screen = view.NewScreen(app.backend, app.page, app.modal)

	// 6. Handlers
	if err := app.registerHandlers(); err != nil {
		return &InitError{Component: "subscriptions", Err: err}
	}

	// 7. Plugin host. Hooks subscribe after the handlers above.
	host, err := plugin.NewHost(app.bus,
		plugin.WithLogger(app.logger),
		plugin.WithExecutionTimeout(cfg.Plugins.Timeout),
	)
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	app.plugins = host

	return nil
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.shutdown()

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	// A failing script is logged by the host and left out.
	_ = app.plugins.LoadAll(app.ctx, app.config.Plugins.Scripts)

	go app.pollInput()
	app.fetchCatalog()
	app.screen.Draw()

	return app.eventLoop()
}

// Shutdown asks a running event loop to stop.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}

// shutdown cancels pending requests and releases resources in reverse
// initialization order.
func (app *Application) shutdown() {
	app.Shutdown()
	app.cancel()
	app.pending.Wait()

	if err := app.plugins.Close(); err != nil {
		app.logger.Warn("closing plugins", slog.Any("error", err))
	}
	if err := app.subs.Close(); err != nil {
		app.logger.Warn("closing subscriptions", slog.Any("error", err))
	}
	app.closeLog()
}

func (app *Application) closeLog() {
	if app.logCloser != nil {
		app.logCloser.Close()
		app.logCloser = nil
	}
}

// runAsync performs request on its own goroutine and posts done back to the
// event loop with the result. Nothing is posted once the app is stopping.
func runAsync[T any](app *Application, op string, request func(ctx context.Context) (T, error), done func(ctx context.Context, res T, err error) error) {
	app.pending.Add(1)
	go func() {
		defer app.pending.Done()

		res, err := request(app.ctx)
		if app.ctx.Err() != nil {
			return
		}
		t := func(ctx context.Context) error {
			return done(ctx, res, err)
		}
		select {
		case app.tasks <- t:
		case <-app.ctx.Done():
			app.logger.Debug("dropping completion", slog.String("op", op))
		}
	}()
}

// requestFailed logs a failed call and publishes api.request.failed.
// Prior state is left untouched.
func (app *Application) requestFailed(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	app.logger.Error("request failed", slog.String("op", op), slog.Any("error", err))
	return app.emitRequestFailed(ctx, op, err)
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// EventBus returns the event bus.
func (app *Application) EventBus() event.Bus {
	return app.bus
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// State returns the application state.
func (app *Application) State() *store.State {
	return app.state
}

// Screen returns the root view.
func (app *Application) Screen() *view.Screen {
	return app.screen
}

// Plugins returns the plugin host.
func (app *Application) Plugins() *plugin.Host {
	return app.plugins
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}
