package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/matvei-khlestov/vemora-sync/internal/cache"
	"github.com/matvei-khlestov/vemora-sync/internal/cart"
	"github.com/matvei-khlestov/vemora-sync/internal/catalog"
	"github.com/matvei-khlestov/vemora-sync/internal/identity"
	"github.com/matvei-khlestov/vemora-sync/internal/mapping"
	"github.com/matvei-khlestov/vemora-sync/internal/remote"
	"github.com/matvei-khlestov/vemora-sync/internal/session"
	"github.com/matvei-khlestov/vemora-sync/internal/userstore"
	"github.com/matvei-khlestov/vemora-sync/pkg/config"
	"github.com/matvei-khlestov/vemora-sync/pkg/db"
	"github.com/matvei-khlestov/vemora-sync/pkg/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "vemora-sync", cfg.Env)
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: cfg.LogLevel,
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("vemora sync started!")

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating new postgres DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	store := cache.NewStore(cache.NewRedisPersistence(rdb, logger), logger)
	if err := store.Warm(ctx); err != nil {
		logger.Sugar().Warnf("cache warm failed, starting cold: %v", err)
	}

	mapper := mapping.NewMapper(logger)
	source := remote.NewSource(
		remote.NewHTTPSource(cfg.Catalog.APIURL, cfg.Catalog.FetchTimeout, logger),
		remote.NewKafkaSource(remote.KafkaConfig{
			Brokers:         cfg.Kafka.Brokers,
			GroupID:         cfg.Kafka.GroupID,
			ProductsTopic:   cfg.Kafka.ProductsTopic,
			CategoriesTopic: cfg.Kafka.CategoriesTopic,
			BrandsTopic:     cfg.Kafka.BrandsTopic,
		}, logger),
	)

	catalogRepo := catalog.NewRepository(store, source, mapper, logger)

	cartStore := userstore.NewCartStore(pool, logger)
	cartRepo := cart.NewRepository(cartStore, logger)

	identityStream := identity.NewStream()

	manager := session.NewManager(session.Deps{
		Identity:      identityStream,
		CartRepo:      cartRepo,
		CartStore:     cartStore,
		FavoriteStore: userstore.NewFavoriteStore(pool, logger),
		ProfileStore:  userstore.NewProfileStore(pool, logger),
		OrderStore:    userstore.NewOrderStore(pool, logger),
		Notifier:      session.NewLogNotifier(logger),
		Scope:         session.NewScope(),
		Categories:    cfg.Notifier.Categories,
	}, logger)

	manager.Start(ctx)

	if err := catalogRepo.RefreshAll(ctx); err != nil {
		logger.Sugar().Warnf("initial catalog refresh failed: %v", err)
	}

	catalogRepo.StartRealtimeSync(ctx)

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	catalogRepo.StopRealtimeSync()
	manager.Stop()

	pool.Close()
	log.Println("Closed db pool successfully")

	if err := rdb.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping telemetry: %v\n", err)
	} else {
		log.Println("Telemetry closed correctly")
	}
}
