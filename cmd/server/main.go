package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/foundation/core/config"
	"github.com/dmitrymomot/foundation/core/health"
	"github.com/dmitrymomot/foundation/core/logger"
	"github.com/dmitrymomot/foundation/core/router"
	"github.com/dmitrymomot/foundation/core/server"
	"github.com/dmitrymomot/foundation/integration/database/pg"
	"github.com/dmitrymomot/foundation/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/auth"
	"github.com/dmitrymomot/uilab/internal/handler"
	"github.com/dmitrymomot/uilab/internal/media"
	"github.com/dmitrymomot/uilab/internal/repository"
	"github.com/dmitrymomot/uilab/internal/storage"
	"github.com/dmitrymomot/uilab/internal/view"
)

// devIdentity is the admin identity used when DEV_MODE is on or when the
// access-proxy header is absent in local development.
var devIdentity = auth.Identity{Email: "dev@local", Name: "Local Dev"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg app.Config
	config.MustLoad(&cfg) // panic on error

	log := logger.New(logger.WithDevelopment(cfg.AppName))

	db, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		log.Error("Failed to connect to database", logger.Component("database"), logger.Error(err))
		os.Exit(1)
	}
	if err := pg.Migrate(ctx, db, cfg.DB, log.With("component", "migration")); err != nil {
		log.Error("Failed to migrate database", logger.Component("database.migration"), logger.Error(err))
		os.Exit(1)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Error("Failed to init object storage", logger.Component("storage"), logger.Error(err))
		os.Exit(1)
	}

	templates, err := view.Load(cfg.TemplateDir)
	if err != nil {
		log.Error("Failed to load templates", logger.Component("templates"), logger.Error(err))
		os.Exit(1)
	}

	repo := repository.New(db)
	mediaSvc := media.NewService(repo, store, log)

	codec := auth.NewCodec(cfg.SessionSecret)
	google := auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret)

	var resolver auth.Resolver
	switch cfg.AuthMode {
	case app.AuthModeAccessHeader:
		resolver = &auth.AccessHeaderResolver{DevIdentity: devIdentity}
	default:
		resolver = auth.NewCookieResolver(codec)
	}

	authenticate := auth.Authenticate[*app.Context](auth.Config[*app.Context]{
		Resolver:    resolver,
		IsAdmin:     auth.AdminAllowlist(cfg.AdminEmails),
		DevMode:     cfg.DevMode,
		DevIdentity: devIdentity,
		LoginURL:    "/auth/login",
		Logger:      log.With(logger.Component("auth")),
	})

	r := router.New[*app.Context](
		router.WithContextFactory[*app.Context](app.NewContext()),
		router.WithErrorHandler[*app.Context](errorHandler(templates.Error)),
		router.WithMiddleware(
			middleware.RequestID[*app.Context](),
			middleware.ClientIP[*app.Context](),
			middleware.LoggingWithLogger[*app.Context](log.With(logger.Component("http.request"))),
		),
	)

	r.Get("/live", health.Liveness)
	r.Get("/ready", health.Readiness[*app.Context](log, pg.Healthcheck(db)))

	handler.Register(r, handler.Deps{
		Repo:         repo,
		Media:        mediaSvc,
		Google:       google,
		Codec:        codec,
		Views:        templates,
		Log:          log,
		BaseURL:      cfg.BaseURL,
		Authenticate: authenticate,
		RequireAdmin: auth.RequireAdmin[*app.Context](),
	})

	eg, ctx := errgroup.WithContext(ctx)

	s, err := server.NewFromConfig(cfg.Server)
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}
	eg.Go(s.Run(ctx, r))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}
