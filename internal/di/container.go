package di

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	adminRepo "github.com/okhotnikdev/mediagate/internal/modules/admin/repository"
	adminService "github.com/okhotnikdev/mediagate/internal/modules/admin/service"
	approvalRepo "github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	approvalService "github.com/okhotnikdev/mediagate/internal/modules/approval/service"
	feedService "github.com/okhotnikdev/mediagate/internal/modules/feed/service"
	itemRepo "github.com/okhotnikdev/mediagate/internal/modules/item/repository"
	mediaService "github.com/okhotnikdev/mediagate/internal/modules/media/service"
	ruleRepo "github.com/okhotnikdev/mediagate/internal/modules/rule/repository"
	ruleService "github.com/okhotnikdev/mediagate/internal/modules/rule/service"
	schedulerService "github.com/okhotnikdev/mediagate/internal/modules/scheduler/service"
	sourceService "github.com/okhotnikdev/mediagate/internal/modules/source/service"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
	"github.com/okhotnikdev/mediagate/internal/shared/database"
	httpServer "github.com/okhotnikdev/mediagate/internal/transport/http"
	telegramTransport "github.com/okhotnikdev/mediagate/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Database
	do.Provide(injector, func(i do.Injector) (*sql.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			return nil, oops.With("database_path", cfg.DatabasePath, "context", "failed to open database").Wrap(err)
		}
		return db, nil
	})

	// Register Item Repository
	do.Provide(injector, func(i do.Injector) (itemRepo.Repository, error) {
		db := do.MustInvoke[*sql.DB](i)
		return itemRepo.NewSQLiteStorage(db), nil
	})

	// Register Rule Repository
	do.Provide(injector, func(i do.Injector) (ruleRepo.Repository, error) {
		db := do.MustInvoke[*sql.DB](i)
		return ruleRepo.NewSQLiteStorage(db), nil
	})

	// Register Approval Repository
	do.Provide(injector, func(i do.Injector) (approvalRepo.Repository, error) {
		db := do.MustInvoke[*sql.DB](i)
		return approvalRepo.NewSQLiteStorage(db), nil
	})

	// Register Admin Repository
	do.Provide(injector, func(i do.Injector) (adminRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return adminRepo.NewFileStorage(cfg.AdminsFile), nil
	})

	// Register Admin Service
	do.Provide(injector, func(i do.Injector) (*adminService.Service, error) {
		repo := do.MustInvoke[adminRepo.Repository](i)
		return adminService.New(repo), nil
	})

	// Register Rule Service
	do.Provide(injector, func(i do.Injector) (*ruleService.Service, error) {
		repo := do.MustInvoke[ruleRepo.Repository](i)
		return ruleService.New(repo), nil
	})

	// Register Media Fetcher
	do.Provide(injector, func(i do.Injector) (*mediaService.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		return mediaService.NewFetcher(cfg.UserAgent, timeout), nil
	})

	// Register Media Resolver
	do.Provide(injector, func(i do.Injector) (*mediaService.Resolver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		fetcher := do.MustInvoke[*mediaService.Fetcher](i)
		resolver, err := mediaService.NewResolver(cfg, fetcher, mediaService.ExecRunner{})
		if err != nil {
			return nil, oops.With("media_dir", cfg.MediaDir, "context", "failed to initialize media resolver").Wrap(err)
		}
		return resolver, nil
	})

	// Register Media Sweeper
	do.Provide(injector, func(i do.Injector) (*mediaService.Sweeper, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return mediaService.NewSweeper(cfg), nil
	})

	// Register Source Client
	do.Provide(injector, func(i do.Injector) (*sourceService.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return sourceService.New(cfg), nil
	})

	// Register Delivery (bot attached later, see the bot provider)
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Delivery, error) {
		return telegramTransport.NewDelivery(), nil
	})

	// Register Scheduler Service
	do.Provide(injector, func(i do.Injector) (*schedulerService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rules := do.MustInvoke[*ruleService.Service](i)
		items := do.MustInvoke[itemRepo.Repository](i)
		approvals := do.MustInvoke[approvalRepo.Repository](i)
		resolver := do.MustInvoke[*mediaService.Resolver](i)
		source := do.MustInvoke[*sourceService.Client](i)
		delivery := do.MustInvoke[*telegramTransport.Delivery](i)
		return schedulerService.New(cfg, rules, items, approvals, resolver, source, delivery), nil
	})

	// Register Approval Service
	do.Provide(injector, func(i do.Injector) (*approvalService.Service, error) {
		approvals := do.MustInvoke[approvalRepo.Repository](i)
		delivery := do.MustInvoke[*telegramTransport.Delivery](i)
		resolver := do.MustInvoke[*mediaService.Resolver](i)
		return approvalService.New(approvals, delivery, resolver), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		approvals := do.MustInvoke[approvalRepo.Repository](i)
		return feedService.New(approvals), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rules := do.MustInvoke[*ruleService.Service](i)
		approvals := do.MustInvoke[*approvalService.Service](i)
		admin := do.MustInvoke[*adminService.Service](i)
		scheduler := do.MustInvoke[*schedulerService.Service](i)
		return telegramTransport.New(cfg, rules, approvals, admin, scheduler), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramTransport.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// Attach the bot to the delivery now that both exist
		delivery := do.MustInvoke[*telegramTransport.Delivery](i)
		delivery.SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	// Stop the check loop before the stores go away
	if scheduler, err := do.Invoke[*schedulerService.Service](injector); err == nil && scheduler != nil {
		scheduler.Stop()
	}

	// Stop the media sweeper
	if sweeper, err := do.Invoke[*mediaService.Sweeper](injector); err == nil && sweeper != nil {
		sweeper.Stop()
	}

	// Stop the HTTP server
	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Error stopping HTTP server", "error", err)
		}
	}

	// Close the database last
	if db, err := do.Invoke[*sql.DB](injector); err == nil && db != nil {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database", "error", err)
		}
	}

	return nil
}
