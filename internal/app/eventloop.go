package app

import (
	"errors"
	"log/slog"

	"github.com/dshills/larek/internal/renderer/backend"
)

// eventLoop is the main application loop. It is the only goroutine that
// touches the state, the views, the bus and the Lua states.
func (app *Application) eventLoop() error {
	for {
		select {
		case <-app.done:
			return nil

		case ev := <-app.input:
			if ev.Type == backend.EventClosed {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				app.logger.Error("handling input", slog.Any("error", err))
			}

		case t := <-app.tasks:
			if err := t(app.ctx); err != nil {
				app.logger.Error("completing request", slog.Any("error", err))
			}
		}

		app.screen.Draw()
	}
}

// pollInput forwards backend events to the loop until the backend closes.
func (app *Application) pollInput() {
	for {
		ev := app.backend.PollEvent()
		select {
		case app.input <- ev:
		case <-app.done:
			return
		}
		if ev.Type == backend.EventClosed {
			return
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventResize:
		// The next frame is drawn at the new size.
		return nil
	default:
		return nil
	}
}

// handleKeyEvent applies the global keys, then hands the key to the screen.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if isCtrlC(ev) {
		return ErrQuit
	}

	handled, err := app.screen.HandleKey(app.ctx, ev)
	if err != nil {
		return err
	}
	if handled || app.modal.IsOpen() {
		return nil
	}

	if ev.Key == backend.KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q') {
		return ErrQuit
	}
	return nil
}

func isCtrlC(ev backend.Event) bool {
	if ev.Key == backend.KeyCtrlC {
		return true
	}
	return ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModCtrl) && (ev.Rune == 'c' || ev.Rune == 'C')
}
