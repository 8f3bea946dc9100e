package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billinghandler "github.com/de-tools/relationship-roi/pkg/handlers/billing"
	coachhandler "github.com/de-tools/relationship-roi/pkg/handlers/coach"
	ledgerhandler "github.com/de-tools/relationship-roi/pkg/handlers/ledger"
	sharehandler "github.com/de-tools/relationship-roi/pkg/handlers/share"
	"github.com/de-tools/relationship-roi/pkg/services/coach"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/token"

	roimiddleware "github.com/de-tools/relationship-roi/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Ledgers  ledger.Service
	Coach    coach.Service
	Unlocker billinghandler.Unlocker
	Verifier billinghandler.PaymentVerifier
	Auth     *token.Authorizer
	// RequireToken guards the model-backed coach with Auth.
	RequireToken bool
	Limiter      coachhandler.RateLimiter
	Now          func() time.Time
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	deps := config.Dependencies

	coachOpts := coachhandler.Options{
		Coach:   deps.Coach,
		Limiter: deps.Limiter,
		Ledgers: deps.Ledgers,
		Now:     deps.Now,
	}
	if deps.RequireToken && deps.Auth != nil {
		coachOpts.Auth = deps.Auth
	}
	coachHandler := coachhandler.NewHandler(coachOpts)
	billingHandler := billinghandler.NewHandler(deps.Unlocker, deps.Verifier)
	ledgerHandler := ledgerhandler.NewHandler(deps.Ledgers, deps.Auth)
	shareHandler := sharehandler.NewHandler(deps.Ledgers)

	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(roimiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Post("/api/billing/unlock", billingHandler.Unlock)
	router.Post("/api/billing/verify", billingHandler.Verify)
	router.Post("/api/ai/coach", coachHandler.Advise)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ledger", ledgerHandler.GetLedger)
		r.Delete("/ledger", ledgerHandler.ResetLedger)
		r.Post("/people", ledgerHandler.AddPerson)
		r.Delete("/people/{id}", ledgerHandler.DeletePerson)
		r.Post("/entries", ledgerHandler.AddEntry)
		r.Put("/entries/{id}", ledgerHandler.UpdateEntry)
		r.Delete("/entries/{id}", ledgerHandler.DeleteEntry)
		r.Patch("/settings", ledgerHandler.PatchSettings)
		r.Post("/entitlement", ledgerHandler.SetEntitlement)
		r.Delete("/entitlement", ledgerHandler.ClearEntitlement)
		r.Get("/report", ledgerHandler.GetReport)
		r.Get("/insights", ledgerHandler.GetInsights)
		r.Get("/backup", ledgerHandler.ExportBackup)
		r.Post("/backup", ledgerHandler.RestoreBackup)
		r.Post("/coach/local", coachHandler.Local)
		r.Post("/share/scan", shareHandler.Scan)
		r.Post("/share/mask", shareHandler.Mask)
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Router exposes the routes for adapters that do not listen on a socket.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
