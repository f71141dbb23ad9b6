// Package server wires the middleware stack and API routes into one
// HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/application/catalog"
	"github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/application/user"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/http/handlers"
	"github.com/foodgram/backend/internal/infrastructure/http/middleware"
	"github.com/foodgram/backend/internal/infrastructure/security"
)

// Server is the API HTTP server.
type Server struct {
	config *config.Config
	logger *zap.Logger
	router *chi.Mux
	server *http.Server
}

// NewServer assembles the router and the underlying http.Server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	verifier *security.TokenVerifier,
	recipeService *recipe.Service,
	userService *user.Service,
	catalogService *catalog.Service,
) *Server {
	s := &Server{config: cfg, logger: logger}
	s.router = s.setupRouter(db, verifier, recipeService, userService, catalogService)
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Handler exposes the router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter(
	db *gorm.DB,
	verifier *security.TokenVerifier,
	recipeService *recipe.Service,
	userService *user.Service,
	catalogService *catalog.Service,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	r.Use(chimiddleware.Compress(5))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewHTTPMetrics(registry)
	r.Use(metrics.Middleware)

	if s.config.RateLimit.Enable {
		r.Use(middleware.RateLimit(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize))
	}

	r.Use(middleware.Authenticate(verifier, s.logger))

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		health := handlers.NewHealthHandler(db, s.logger)
		r.Get("/health", health.Check)

		rh := handlers.NewRecipeHandlers(recipeService, s.config, s.logger)
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", rh.List)
			r.Post("/", rh.Create)
			r.Get("/download_shopping_cart", rh.DownloadShoppingCart)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rh.Get)
				r.Patch("/", rh.Update)
				r.Delete("/", rh.Delete)
				r.Post("/favorite", rh.Favorite)
				r.Delete("/favorite", rh.Unfavorite)
				r.Post("/shopping_cart", rh.AddToCart)
				r.Delete("/shopping_cart", rh.RemoveFromCart)
			})
		})

		uh := handlers.NewUserHandlers(userService, s.config, s.logger)
		r.Route("/users", func(r chi.Router) {
			r.Get("/", uh.List)
			r.Get("/me", uh.Me)
			r.Get("/subscriptions", uh.Subscriptions)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", uh.Get)
				r.Post("/subscribe", uh.Subscribe)
				r.Delete("/subscribe", uh.Unsubscribe)
			})
		})

		ch := handlers.NewCatalogHandlers(catalogService, s.logger)
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", ch.ListTags)
			r.Post("/", ch.CreateTag)
			r.Get("/{id}", ch.GetTag)
		})
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ch.ListIngredients)
			r.Post("/", ch.CreateIngredient)
			r.Get("/{id}", ch.GetIngredient)
		})
	})

	return r
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
