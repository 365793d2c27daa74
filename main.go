package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcart "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/cart"
	appcatalog "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/catalog"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/id"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/memory"
	obsprovider "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/observability"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/observability/oteltrace"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/observability/prometrics"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/observability/zaplogger"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
	httppresentation "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	serviceName := getenvDefault("SERVICE_NAME", "myshopapi")
	env := getenvDefault("ENV", "dev")
	addr := getenvDefault("HTTP_ADDR", ":8080")

	logger := zaplogger.New(
		observability.F("service", serviceName),
		observability.F("env", env),
	)

	registry := prometrics.New(serviceName, "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		),
		observability.MHTTPRequests: registry.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests.",
			"method", "route", "status",
		),
		observability.MSlugRetries: registry.Counter(
			string(observability.MSlugRetries),
			"Slug reservations retried after a uniqueness conflict.",
			"kind",
		),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			nil,
			"use_case",
		),
		observability.MHTTPRequestDuration: registry.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP request handling in seconds.",
			nil,
			"method", "route",
		),
	}

	tel := obsprovider.New(oteltrace.New(serviceName), logger, counters, histograms)
	systemLogger := tel.Logger().With(observability.F("component", "main"))

	categoryRepo := memory.NewCategoryRepository()
	productRepo := memory.NewProductRepository()
	cartRepo := memory.NewCartRepository()
	idGenerator := id.NewUUIDGenerator()

	catalogService := appcatalog.NewService(categoryRepo, productRepo, idGenerator, tel)
	cartService := appcart.NewService(cartRepo, productRepo, tel)

	handler := httppresentation.NewHandler(catalogService, cartService, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				observability.F("error", err.Error()),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			observability.F("error", err.Error()),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
