package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcache"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/cache"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/database"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/identity"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/jobqueue"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/mail"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/mediastore"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/purge"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/router"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/sweep"

	"github.com/humberto3389/Bodas-sub000/app/controllers"
)

func main() {
	app, shutdown := NewApplication()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		shutdown()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

// mailingSink stores a notification in the operator inbox and mirrors
// it to the operator email address via the job queue.
type mailingSink struct {
	inbox repository.NotificationRepository
	queue *jobqueue.Queue
}

func (s *mailingSink) Notify(accountID uint, kind, message string) error {
	if err := s.inbox.Notify(accountID, kind, message); err != nil {
		return err
	}
	if err := s.queue.EnqueueOperatorEmail(kind, message); err != nil {
		fiberlog.Errorf("[Notifications] Failed to enqueue operator email: %v", err)
	}
	return nil
}

// NewApplication wires the full service and returns the fiber app plus
// a function that stops the background workers.
func NewApplication() (*fiber.App, func()) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	factory := repository.NewFactory(db)
	repository.SetGlobalFactory(factory)

	accounts := factory.GetAccountRepository()
	notifications := factory.GetNotificationRepository()

	// Object storage is optional in development.
	mediaCfg, err := mediastore.LoadConfig()
	if err != nil {
		log.Fatalf("invalid media storage config: %v", err)
	}
	var store *mediastore.Client
	if mediaCfg.IsEnabled() {
		store, err = mediastore.NewClient(mediaCfg)
		if err != nil {
			log.Fatalf("failed to set up media storage: %v", err)
		}
	}

	purgeDeps := purge.Deps{
		Accounts:      accounts,
		Guests:        factory.GetGuestRepository(),
		Rsvps:         factory.GetRsvpRepository(),
		Guestbook:     factory.GetGuestbookRepository(),
		Media:         factory.GetMediaRepository(),
		Notifications: notifications,
		Prefixes:      mediaCfg,
		Identity:      identity.NewClient(),
	}
	if store != nil {
		purgeDeps.Store = store
	}
	coordinator := purge.NewCoordinator(purgeDeps)

	manager := jobqueue.InitManager(coordinator, mail.NewOperatorMailer(), notifications)
	manager.Start()

	snapshots := accountcache.New(accounts)
	engine := entitlements.NewEngine(
		accounts,
		factory.GetUsageRepository(),
		&mailingSink{inbox: notifications, queue: manager.GetQueue()},
		manager.GetQueue(),
		entitlements.WithCache(snapshots),
	)

	sweeper := sweep.New(accounts, engine, manager.GetQueue())
	sweeper.Start()

	pageViews := accountcache.NewDebouncedWriter(accounts, 30*time.Second)
	viewsStop := make(chan struct{})
	go pageViews.Start(viewsStop)

	controllers.Setup(engine, snapshots, pageViews, store, mediaCfg)

	app := fiber.New(fiber.Config{
		BodyLimit: 104857600, // 100 MiB, room for video uploads
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("ADMIN_USER", "admin"): env.GetEnv("ADMIN_PASSWORD", ""),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app, engine)

	shutdown := func() {
		sweeper.Stop()
		close(viewsStop)
		manager.Stop()
	}

	return app, shutdown
}
