// Package container provides dependency injection using Uber FX.
package container

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/application/catalog"
	"github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/application/user"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/http/server"
	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/backend/internal/infrastructure/security"
	"github.com/foodgram/backend/internal/ports/outbound"
	"github.com/foodgram/backend/pkg/logger"
)

// Module assembles every dependency of the API server.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: !cfg.IsProduction(),
		})
	},
)

// DatabaseModule provides the database connection.
var DatabaseModule = fx.Provide(
	gormrepo.Open,
)

// RepositoryModule provides repository implementations.
var RepositoryModule = fx.Provide(
	gormrepo.NewRecipeRepository,
	gormrepo.NewUserRepository,
	gormrepo.NewTagRepository,
	gormrepo.NewIngredientRepository,
	gormrepo.NewShoppingListRepository,
)

// ServiceModule provides application services. The three pair stores
// share one implementation parameterized by table, so they are built
// here rather than exposed as separate fx values.
var ServiceModule = fx.Provide(
	security.NewTokenVerifier,
	recipe.NewCompositionValidator,
	func(
		db *gorm.DB,
		recipes outbound.RecipeRepository,
		users outbound.UserRepository,
		shopping outbound.ShoppingListRepository,
		validator *recipe.CompositionValidator,
		log *zap.Logger,
	) *recipe.Service {
		return recipe.NewService(
			recipes,
			users,
			gormrepo.NewFollowStore(db),
			gormrepo.NewFavoriteStore(db),
			gormrepo.NewShoppingCartStore(db),
			shopping,
			validator,
			log,
		)
	},
	func(
		db *gorm.DB,
		users outbound.UserRepository,
		recipes outbound.RecipeRepository,
		log *zap.Logger,
	) *user.Service {
		return user.NewService(users, recipes, gormrepo.NewFollowStore(db), log)
	},
	catalog.NewService,
)

// HTTPModule provides the HTTP server.
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule starts and stops the server with the fx lifecycle.
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, cfg *config.Config, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			},
		})
	},
)
