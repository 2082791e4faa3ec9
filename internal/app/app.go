package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"packlist-go/internal/auth"
	"packlist-go/internal/config"
	"packlist-go/internal/db"
	checklistsdomain "packlist-go/internal/domain/checklists"
	familydomain "packlist-go/internal/domain/family"
	templatesdomain "packlist-go/internal/domain/templates"
	userdomain "packlist-go/internal/domain/user"
	"packlist-go/internal/repository/inmemory"
	checklistsrepo "packlist-go/internal/repository/postgres/checklists"
	familyrepo "packlist-go/internal/repository/postgres/family"
	templatesrepo "packlist-go/internal/repository/postgres/templates"
	userrepo "packlist-go/internal/repository/postgres/user"
	"packlist-go/internal/transport/httpserver"
	"packlist-go/internal/transport/httpserver/handler"
	"packlist-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	templates  *templatesdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	log = logger.NewWithOptions(os.Stdout, logger.Options{Env: cfg.Env, Level: cfg.Log.Level, Format: cfg.Log.Format})

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing services")
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	templateService := templatesdomain.NewServiceWithCache(
		templatesrepo.NewPostgres(dbConn),
		inmemory.NewInMemoryTemplateCache(),
		cfg.Templates.CacheTTL,
	)
	checklistService := checklistsdomain.NewService(checklistsrepo.NewPostgres(dbConn), familyService, templateService)
	tokens := auth.NewTokens(cfg.Auth)

	log.Info("app: initializing router")
	handlers := handler.New(userService, tokens, familyService, templateService, checklistService, log)
	router := httpserver.NewRouter(cfg, handlers, tokens, userService, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		templates:  templateService,
	}, nil
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) Logger() logger.Logger {
	return a.log
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Migrate() error {
	a.log.Info("db: applying migrations")
	if err := db.Migrate(a.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedTemplates inserts the built-in catalog unless defaults already exist.
func (a *App) SeedTemplates(ctx context.Context) (int, error) {
	catalog, err := templatesdomain.DefaultCatalog()
	if err != nil {
		return 0, fmt.Errorf("load default catalog: %w", err)
	}

	created, err := a.templates.SeedDefaults(ctx, catalog)
	if err != nil {
		return 0, fmt.Errorf("seed templates: %w", err)
	}
	if created == 0 {
		a.log.Info("seed: default templates already present")
	} else {
		a.log.Info("seed: default templates created", "count", created)
	}
	return created, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
