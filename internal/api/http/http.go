// Package httpapi serves the public JSON API.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/peepeep/peepeep-manager/internal/announce"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server
type Server struct {
	hs    *http.Server
	c     *Config
	board *announce.Board
	done  chan struct{}
}

// New creates a new server
func New(config *Config) *Server {
	return &Server{
		c:     config,
		board: announce.New(),
		done:  make(chan struct{}),
	}
}

// Done returns a channel that is closed when the server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the full route table. Exposed so tests can serve the
// API without binding a listener.
func (s *Server) Handler(ws *waitlist.Server, ps *provider.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.c.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := &handlers{waitlist: ws, provider: ps, board: s.board}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/waitlist", func(r chi.Router) {
			r.Post("/", h.waitlistSignup)
			r.Get("/status", h.waitlistStatus)
			r.Post("/referral", h.trackReferral)
		})

		r.Post("/contact", h.submitContact)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/makes", h.catalogMakes)
			r.Get("/models", h.catalogModels)
			r.Get("/years", h.catalogYears)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Post("/", h.providerCreate)
			// the mailed link is a GET; POST stays for API callers
			r.Get("/verify-email", h.providerVerifyEmailGet)
			r.Post("/verify-email", h.providerVerifyEmail)

			r.Route("/{email}", func(r chi.Router) {
				r.Use(h.withOptionalAuth)
				r.Put("/", h.providerUpdate)
				r.Post("/license", h.providerUploadLicense)
				r.Post("/images/{kind}", h.providerUploadImage)
				r.Get("/badge", h.providerBadge)

				r.Group(func(r chi.Router) {
					r.Use(h.requireOwner)
					r.Get("/", h.providerGet)
				})
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/google", h.loginGoogle)
		})

		r.Route("/announcement", func(r chi.Router) {
			r.Get("/", h.announcementGet)

			r.Group(func(r chi.Router) {
				r.Use(h.withOptionalAuth, h.requireAuth)
				r.Post("/", h.announcementSet)
				r.Delete("/", h.announcementDismiss)
			})
		})
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context, ws *waitlist.Server, ps *provider.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	hsDone := make(chan struct{})

	go func() {
		<-hsDone
		close(s.done)
	}()

	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Handler(ws, ps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("peepeep-manager new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		cancel()
		close(hsDone)
	}()

	return nil
}

// Stop shuts the server down, letting in-flight requests finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.hs.Shutdown(ctx)
}
