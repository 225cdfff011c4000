package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/stautonico/banking-simulator/internal/api"
	"github.com/stautonico/banking-simulator/internal/config"
	"github.com/stautonico/banking-simulator/internal/credential"
	"github.com/stautonico/banking-simulator/internal/db"
	"github.com/stautonico/banking-simulator/internal/middleware"
	"github.com/stautonico/banking-simulator/internal/repository"
	"github.com/stautonico/banking-simulator/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	logger *slog.Logger,
) (http.Handler, error) {
	hasher := credential.NewBcryptHasher(cfg.App.BcryptCost)
	accountService := service.NewAccountService(database, hasher, cfg.App.MaxAllocationAttempts, logger)
	ledgerService := service.NewLedgerService(database)
	directoryService := service.NewDirectoryService(database)

	handler := NewHandler(accountService, ledgerService, directoryService, database, logger)

	finalHandler, err := handler.routes()
	if err != nil {
		return nil, err
	}

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	return withTracing(finalHandler), nil
}

// withTracing starts a server span per request, continuing any W3C trace
// context the caller sent. Spans go to the global TracerProvider, which
// records nothing until the process installs an SDK.
func withTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "bank-api",
		otelhttp.WithTracerProvider(otel.GetTracerProvider()),
		otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)),
	)
}

// routes builds the mux behind request validation.
func (h *Handler) routes() (http.Handler, error) {
	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	h.Mount(mux)

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load API document: %w", err)
	}
	validate, err := middleware.RequestValidator(doc, h.logger)
	if err != nil {
		return nil, err
	}

	return validate(mux), nil
}
