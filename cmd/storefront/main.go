// cmd/storefront/main.go
//
// Headless storefront client. Wires the local state stores (cart,
// notifications, session) against the backend services and the Redis
// change feed, restores local snapshots, and keeps state in sync until
// interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shophub/storefront-core/internal/config"
	domaincart "github.com/shophub/storefront-core/internal/domain/cart"
	domainnotification "github.com/shophub/storefront-core/internal/domain/notification"
	"github.com/shophub/storefront-core/internal/domain/user"
	"github.com/shophub/storefront-core/internal/infrastructure/database/postgres"
	"github.com/shophub/storefront-core/internal/infrastructure/database/redis"
	"github.com/shophub/storefront-core/internal/pkg/logger"
	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/cart"
	"github.com/shophub/storefront-core/internal/store/notification"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/shophub/storefront-core/internal/store/session"
	"github.com/sirupsen/logrus"
)

// identityBackend adapts the user service to the session store
type identityBackend struct {
	users *user.Service
}

func (b *identityBackend) Authenticate(ctx context.Context, email, password string) (session.Identity, error) {
	u, err := b.users.Authenticate(ctx, email, password)
	if err != nil {
		return session.Identity{}, err
	}
	return session.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   session.Role(u.Role),
	}, nil
}

func (b *identityBackend) RoleFor(ctx context.Context, userID uint) (session.Role, error) {
	role, err := b.users.RoleFor(ctx, userID)
	if err != nil {
		return "", err
	}
	return session.Role(role), nil
}

func main() {
	email := flag.String("email", os.Getenv("SHOPHUB_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("SHOPHUB_PASSWORD"), "account password")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Local snapshot storage
	snapshots, err := persist.NewFileStore(cfg.Client.SnapshotDir)
	if err != nil {
		log.Fatalf("Failed to open snapshot storage: %v", err)
	}

	// Realtime subscription manager over the Redis change feed
	transport := realtime.NewRedisTransport(redisClient.GetClient(), appLogger)
	manager := realtime.NewManager(transport, appLogger)
	defer manager.UnsubscribeAll()

	// Backend services double as the store backends
	publisher := realtime.NewPublisher(redisClient.GetClient(), appLogger)
	cartService := domaincart.NewService(db.GetDB(), cfg, publisher)
	notificationService := domainnotification.NewService(db.GetDB(), cfg, publisher)
	userService := user.NewService(db.GetDB(), cfg)

	// State stores
	cartStore := cart.NewStore(cartService, snapshots, manager, appLogger)
	notificationStore := notification.NewStore(notificationService, snapshots, manager, cfg.Client.NotificationHistory, appLogger)
	sessionStore := session.NewStore(&identityBackend{users: userService}, cartStore, notificationStore, appLogger)

	ctx := context.Background()

	if *email != "" {
		loginCtx, cancel := context.WithTimeout(ctx, cfg.Client.SyncTimeout)
		identity, err := sessionStore.Login(loginCtx, *email, *password)
		cancel()
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		appLogger.WithFields(logrus.Fields{
			"user_id": identity.UserID,
			"role":    identity.Role,
		}).Info("Logged in")
	} else {
		appLogger.Info("No credentials provided, running as guest")
	}

	appLogger.WithField("items", cartStore.TotalItems()).Info("Cart ready")

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sessionStore.Logout()
	appLogger.Info("Storefront client stopped")
}
