package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/db"
	"github.com/yungbote/homeslice-backend/internal/handlers"
	"github.com/yungbote/homeslice-backend/internal/observability"
	"github.com/yungbote/homeslice-backend/internal/platform/filestore"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/realtime/bus"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/server"
	"github.com/yungbote/homeslice-backend/internal/services"
)

// App wires config, storage, realtime, services and the HTTP server into one
// startable unit.
type App struct {
	log    *logger.Logger
	cfg    Config
	srv    *http.Server
	hub    *realtime.Hub
	bus    bus.Bus
	otelFn func(context.Context) error
}

func New(log *logger.Logger) (*App, error) {
	cfg := LoadConfig(log)
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "homeslice-backend",
		Environment: cfg.Mode,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, err
	}
	gormDB := pg.DB()

	files, err := filestore.NewDiskStore(cfg.StorageRoot, log)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(log)
	var emitter services.Emitter = &services.HubEmitter{Hub: hub}
	var rbus bus.Bus
	if cfg.RedisEnabled {
		rbus, err = bus.NewRedisBus(log)
		if err != nil {
			return nil, err
		}
		if err := rbus.StartForwarder(context.Background(), hub.Broadcast); err != nil {
			return nil, err
		}
		emitter = &services.BusEmitter{Bus: rbus}
	}
	notifier := services.NewNotifier(emitter)

	userRepo := repos.NewUserRepo(gormDB, log)
	tokenRepo := repos.NewUserTokenRepo(gormDB, log)
	membershipRepo := repos.NewMembershipRepo(gormDB, log)
	householdRepo := repos.NewHouseholdRepo(gormDB, log)
	choreRepo := repos.NewChoreRepo(gormDB, log)
	expenseRepo := repos.NewExpenseRepo(gormDB, log)
	eventRepo := repos.NewEventRepo(gormDB, log)
	recurrenceRepo := repos.NewRecurrenceRepo(gormDB, log)
	threadRepo := repos.NewThreadRepo(gormDB, log)
	messageRepo := repos.NewMessageRepo(gormDB, log)
	pollRepo := repos.NewPollRepo(gormDB, log)
	notificationRepo := repos.NewNotificationRepo(gormDB, log)

	guard := services.NewGuard(log, membershipRepo)
	avatars, err := services.NewAvatarService(log, files)
	if err != nil {
		return nil, err
	}
	authSvc := services.NewAuthService(gormDB, log, cfg.Auth, userRepo, tokenRepo, avatars)
	userSvc := services.NewUserService(gormDB, log, userRepo, membershipRepo, notifier)
	householdSvc := services.NewHouseholdService(gormDB, log, guard, householdRepo, membershipRepo, userRepo, choreRepo, expenseRepo, eventRepo, threadRepo, notificationRepo, notifier)
	choreSvc := services.NewChoreService(gormDB, log, guard, choreRepo, recurrenceRepo, userRepo, membershipRepo, notifier)
	expenseSvc := services.NewExpenseService(gormDB, log, guard, expenseRepo, membershipRepo, notifier)
	eventSvc := services.NewEventService(gormDB, log, guard, eventRepo, choreRepo, recurrenceRepo, notifier)
	recurrenceSvc := services.NewRecurrenceService(gormDB, log, recurrenceRepo)
	threadSvc := services.NewThreadService(gormDB, log, guard, threadRepo, membershipRepo, notifier)
	messageSvc := services.NewMessageService(gormDB, log, guard, threadRepo, messageRepo, membershipRepo, notificationRepo, files, notifier)
	pollSvc := services.NewPollService(gormDB, log, guard, threadRepo, messageRepo, pollRepo, notifier)
	pushSvc := services.NewPushService(log, cfg.Push, notificationRepo)
	notificationSvc := services.NewNotificationService(gormDB, log, notificationRepo, notifier, pushSvc)

	router := server.NewRouter(log, authSvc, server.Handlers{
		Auth:         handlers.NewAuthHandler(log, authSvc),
		User:         handlers.NewUserHandler(log, userSvc),
		Household:    handlers.NewHouseholdHandler(log, householdSvc),
		Chore:        handlers.NewChoreHandler(log, choreSvc),
		Expense:      handlers.NewExpenseHandler(log, expenseSvc),
		Event:        handlers.NewEventHandler(log, eventSvc),
		Recurrence:   handlers.NewRecurrenceHandler(log, recurrenceSvc),
		Thread:       handlers.NewThreadHandler(log, threadSvc),
		Message:      handlers.NewMessageHandler(log, messageSvc),
		Poll:         handlers.NewPollHandler(log, pollSvc),
		Notification: handlers.NewNotificationHandler(log, notificationSvc, pushSvc),
		SSE:          handlers.NewSSEHandler(log, hub, guard),
		Media:        handlers.NewMediaHandler(log, files),
	}, cfg.AllowedOrigins)

	return &App{
		log: log,
		cfg: cfg,
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		hub:    hub,
		bus:    rbus,
		otelFn: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("server listening", "addr", a.cfg.ListenAddr)
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.srv.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.otelFn != nil {
		if err := a.otelFn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
