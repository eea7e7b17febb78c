package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/topic"
	plua "github.com/dshills/larek/internal/plugin/lua"
)

// ModuleName is the global table scripts use to reach the host.
const ModuleName = "larek"

// Hook describes one larek.on registration.
type Hook struct {
	Script  string
	Pattern topic.Glob
}

// Host loads hook scripts and delivers bus events to them.
type Host struct {
	bus     event.Bus
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	scripts []*script
	closed  bool
}

// script is one loaded Lua file with its own state and subscriptions.
type script struct {
	name   string
	state  *plua.State
	bridge *plua.Bridge
	subs   *event.Subscriber
	logger *slog.Logger
	hooks  []Hook
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for larek.log, print and hook failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithExecutionTimeout bounds each script load and hook call.
func WithExecutionTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// NewHost creates a host that subscribes scripts to bus.
func NewHost(bus event.Bus, opts ...Option) (*Host, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	h := &Host{
		bus:     bus,
		logger:  slog.New(slog.DiscardHandler),
		timeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(slog.String("component", "plugin"))
	return h, nil
}

// LoadAll loads every script in paths. A script that fails is logged and
// skipped; the failures are returned joined.
func (h *Host) LoadAll(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := h.LoadFile(ctx, path); err != nil {
			h.logger.Warn("script not loaded", slog.String("script", path), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadFile runs the script at path. The script is named after its base name.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	return h.load(ctx, filepath.Base(path), func(s *plua.State) error {
		return s.DoFile(ctx, path)
	})
}

// LoadString runs code as a script called name.
func (h *Host) LoadString(ctx context.Context, name, code string) error {
	return h.load(ctx, name, func(s *plua.State) error {
		return s.DoString(ctx, code)
	})
}

func (h *Host) load(ctx context.Context, name string, run func(*plua.State) error) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return &ScriptError{Script: name, Err: ErrHostClosed}
	}

	state := plua.NewState(plua.WithExecutionTimeout(h.timeout))
	sc := &script{
		name:   name,
		state:  state,
		bridge: plua.NewBridge(state.L),
		subs:   event.NewSubscriber(h.bus),
		logger: h.logger.With(slog.String("script", name)),
	}
	sc.install()

	if err := run(state); err != nil {
		sc.close()
		return &ScriptError{Script: name, Err: err}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sc.close()
		return &ScriptError{Script: name, Err: ErrHostClosed}
	}
	h.scripts = append(h.scripts, sc)
	sc.logger.Debug("script loaded", slog.Int("hooks", len(sc.hooks)))
	return nil
}

// Scripts returns the names of the loaded scripts in load order.
func (h *Host) Scripts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.scripts))
	for i, sc := range h.scripts {
		names[i] = sc.name
	}
	return names
}

// Hooks returns every registered hook in registration order.
func (h *Host) Hooks() []Hook {
	h.mu.Lock()
	defer h.mu.Unlock()
	var hooks []Hook
	for _, sc := range h.scripts {
		hooks = append(hooks, sc.hooks...)
	}
	return hooks
}

// Close unsubscribes every hook and releases the Lua states.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	for _, sc := range h.scripts {
		errs = append(errs, sc.close())
	}
	h.scripts = nil
	return errors.Join(errs...)
}

func (sc *script) close() error {
	err := sc.subs.Close()
	sc.state.Close()
	return err
}

// install sets up the larek table and routes print to the logger.
func (sc *script) install() {
	L := sc.state.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on":  sc.luaOn,
		"log": sc.luaLog,
	})
	sc.state.SetGlobal(ModuleName, mod)
	sc.state.SetPrint(func(line string) {
		sc.logger.Debug(line)
	})
}

// luaOn implements larek.on(pattern, fn).
func (sc *script) luaOn(L *lua.LState) int {
	pattern := topic.Glob(L.CheckString(1))
	fn := L.CheckFunction(2)
	if !pattern.Valid() {
		L.ArgError(1, fmt.Sprintf("%v %q", ErrInvalidPattern, string(pattern)))
		return 0
	}

	_, err := sc.subs.SubscribePattern(pattern, event.HandlerFunc(func(ctx context.Context, e any) error {
		sc.deliver(ctx, pattern, fn, e)
		return nil
	}), event.WithPriority(event.PriorityLow))
	if err != nil {
		L.RaiseError("larek.on: %v", err)
		return 0
	}
	sc.hooks = append(sc.hooks, Hook{Script: sc.name, Pattern: pattern})
	return 0
}

// deliver calls fn with the converted payload, topic and metadata.
// Failures are logged, never returned, so the bus keeps dispatching.
func (sc *script) deliver(ctx context.Context, pattern topic.Glob, fn *lua.LFunction, e any) {
	var t topic.Topic
	if tp, ok := e.(event.TopicProvider); ok {
		t = tp.EventTopic()
	}
	meta := lua.LValue(lua.LNil)
	if mp, ok := e.(event.MetadataProvider); ok {
		meta = sc.bridge.ToLuaValue(mp.EventMetadata())
	}

	err := sc.state.Call(ctx, fn, sc.bridge.ToLuaValue(payloadOf(e)), lua.LString(t), meta)
	if err != nil {
		sc.logger.Warn("hook failed",
			slog.String("pattern", string(pattern)),
			slog.String("topic", string(t)),
			slog.Any("error", err))
	}
}

// luaLog implements larek.log(level, msg [, fields]).
func (sc *script) luaLog(L *lua.LState) int {
	level := parseLevel(L.CheckString(1))
	msg := L.CheckString(2)

	var attrs []slog.Attr
	if tbl, ok := L.Get(3).(*lua.LTable); ok {
		if fields, ok := sc.bridge.ToGoValue(tbl).(map[string]any); ok {
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				attrs = append(attrs, slog.Any(k, fields[k]))
			}
		}
	}
	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sc.logger.LogAttrs(ctx, level, msg, attrs...)
	return 0
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// payloadOf returns the payload of an envelope or typed event. Other values
// are returned unchanged.
func payloadOf(e any) any {
	switch ev := e.(type) {
	case event.Envelope:
		return ev.Payload
	case *event.Envelope:
		if ev != nil {
			return ev.Payload
		}
		return nil
	}
	rv := reflect.ValueOf(e)
	if rv.Kind() == reflect.Struct {
		if f := rv.FieldByName("Payload"); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	}
	return e
}
