package app

import (
	"context"

	"log/slog"

	"github.com/peepeep/peepeep-manager/config"
	httpapi "github.com/peepeep/peepeep-manager/internal/api/http"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/mail"
	"github.com/peepeep/peepeep-manager/internal/store"
)

// App is the main application
type App struct {
	hs     *httpapi.Server
	db     dependency.Repository
	mailer dependency.Mailer
	c      *config.Config
	done   chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting peepeep manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql",
			slog.String("err", err.Error()),
		)
		return err
	}

	files, err := a.c.Bucket.Init()
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't init bucket",
			slog.String("err", err.Error()),
		)
		return err
	}

	a.mailer, err = mail.New(&a.c.Mailer, a.db.Mail())
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't create mailer",
			slog.String("err", err.Error()),
		)
		return err
	}
	if err = a.mailer.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "couldn't start mailer worker",
			slog.String("err", err.Error()),
		)
		return err
	}

	waitlistS := waitlist.New(&a.c.Waitlist, a.db, a.mailer)

	providerS, err := provider.New(&a.c.Provider, a.db, a.mailer, files)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed create provider server",
			slog.String("err", err.Error()),
		)
		return err
	}

	// start API server
	a.hs = httpapi.New(&a.c.HTTP)
	if err = a.hs.Start(ctx, waitlistS, providerS); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.mailer != nil {
		if err := a.mailer.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "mailer shutdown failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
