package app

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gomailer/internal/dispatch"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

// App wires dependencies and manages the mailer lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	uuid      uid.StringID

	// resources
	client mail.Client
	mailer *dispatch.Dispatcher

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initMail()
	app.initClosers()

	return app
}

// Context is cancelled when Stop is called.
func (a *App) Context() context.Context {
	return a.ctx
}

// Sender returns the sender of the configured backend.
func (a *App) Sender() mail.Address {
	return a.mailer.Sender()
}

// Send delivers msg through the configured backend. An empty msg.Sender is
// filled with the configured one.
func (a *App) Send(ctx context.Context, msg mail.Message) error {
	if msg.Sender.Email == "" {
		msg.Sender = a.mailer.Sender()
	}
	return a.mailer.Send(ctx, msg)
}

// Stop cancels the app context and closes resources in order.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
