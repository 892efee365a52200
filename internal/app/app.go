// Package app wires the billing API server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/handler"
	"github.com/xenking/billing-api/pkg/health"
	"github.com/xenking/billing-api/pkg/httpmiddleware"
)

const serviceName = "billing-api"

// Server bundles the HTTP handler chain with its health probes.
type Server struct {
	Handler http.Handler
	Health  *health.Health
}

// NewServer builds the billing service, the router and the middleware chain.
// It fails if the pricing engine does not reproduce its canary quote.
func NewServer(lg *zap.Logger, tp trace.TracerProvider, mp metric.MeterProvider, cfg *Config) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []billing.Option{
		billing.WithTracerProvider(tp),
		billing.WithMeterProvider(mp),
	}
	if loc != nil {
		opts = append(opts, billing.WithLocation(loc))
	}
	svc, err := billing.NewService(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create billing service")
	}
	if err := svc.SelfCheck(context.Background()); err != nil {
		return nil, errors.Wrap(err, "pricing self-check")
	}

	probes := health.New()
	probes.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	probes.AddReadinessCheck("pricing", time.Second, svc.SelfCheck)

	router := handler.NewRouter(handler.New(handler.Config{MaxBodyBytes: cfg.MaxBodyBytes}, svc), probes)
	routeFinder := httpmiddleware.MakeRouteFinder(router)

	h := httpmiddleware.Wrap(router,
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", httpmiddleware.HeaderRequestID},
			ExposeHeaders:    []string{httpmiddleware.HeaderRequestID},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
			Max:                cfg.RateLimit.Max,
			Window:             cfg.RateLimit.Window,
			TrustForwardHeader: cfg.RateLimit.TrustForwardHeader,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.Instrument(serviceName, routeFinder, tp, mp),
		httpmiddleware.LogRequests(routeFinder),
	)

	return &Server{Handler: h, Health: probes}, nil
}

// Run starts the HTTP server and handles graceful shutdown. It is the single
// wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("timezone", cfg.Timezone),
	)

	srv, err := NewServer(lg, m.TracerProvider(), m.MeterProvider(), cfg)
	if err != nil {
		return err
	}
	srv.Health.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           srv.Handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		srv.Health.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
