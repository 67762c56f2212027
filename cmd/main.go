package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/config"
	"github.com/Leganyst/campaign-platform/internal/db"
	"github.com/Leganyst/campaign-platform/internal/handlers"
	"github.com/Leganyst/campaign-platform/internal/health"
	"github.com/Leganyst/campaign-platform/internal/i18n"
	"github.com/Leganyst/campaign-platform/internal/logging"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
	"github.com/Leganyst/campaign-platform/internal/router"
	"github.com/Leganyst/campaign-platform/internal/service"
	"github.com/Leganyst/campaign-platform/internal/view"
)

func main() {
	// 1. Конфиг: defaults -> CONFIG_FILE -> env.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. БД и миграции.
	gormDB, err := db.NewGormDB(&cfg.DB, logging.Component(logger, "db"))
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := model.AutoMigrate(gormDB); err != nil {
		return err
	}

	// 3. Переводы и шаблоны.
	if err := i18n.Load(); err != nil {
		return err
	}
	views, err := view.New()
	if err != nil {
		return err
	}

	// 4. Сервисы и обработчики.
	repos := repository.New(gormDB)
	svcLog := logging.Component(logger, "service")
	identity := service.NewIdentityService(repos, svcLog, cfg.Session.TTL)

	characters := service.NewCharacterService(repos, svcLog)
	users := service.NewUserService(repos, svcLog)
	items := service.NewItemService(repos, svcLog)
	attributes := service.NewAttributeService(repos, svcLog)

	resp := handlers.NewResponder(views, logging.Component(logger, "http"), i18n.Parse(cfg.DefaultLocale))
	h := router.Handlers{
		Base:           resp,
		Characters:     handlers.NewCharacterHandler(resp, characters),
		Roles:          handlers.NewRoleHandler(resp, service.NewRoleService(repos, svcLog)),
		Users:          handlers.NewUserHandler(resp, users),
		Items:          handlers.NewItemHandler(resp, items),
		AttributeTypes: handlers.NewAttributeTypeHandler(resp, attributes),
		Attributes:     handlers.NewAttributeHandler(resp, attributes),
		Inventory:      handlers.NewInventoryHandler(resp, items),
		Notes:          handlers.NewNoteHandler(resp, service.NewNoteService(repos, svcLog)),
		Awards:         handlers.NewAwardHandler(resp, service.NewAwardService(repos, svcLog), users, characters),
		Advancement:    handlers.NewAdvancementHandler(resp, service.NewAdvancementService(repos, svcLog), attributes, characters),
		Tickets:        handlers.NewTicketHandler(resp, service.NewTicketService(repos, svcLog), users),
		Auth:           handlers.NewAuthHandler(resp, identity, cfg.Session),
	}

	// /healthz ходит в БД через gRPC health-сервер, если он включён.
	var pinger handlers.Pinger = repos
	var hs *health.Server
	if cfg.GRPC.Addr != "" {
		hs = health.NewServer(repos, logger)
		pinger = hs
	}
	h.Health = handlers.Health(pinger, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router.NewRouter(h, identity, cfg.Session.CookieName, logging.Component(logger, "http")),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errc := make(chan error, 2)

	// 5. gRPC health, если задан адрес.
	if hs != nil {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return err
		}
		go func() { errc <- hs.Serve(ctx, lis) }()
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// 6. Грейсфул-шатдаун по сигналу.
	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
