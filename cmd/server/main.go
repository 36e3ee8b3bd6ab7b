package main

import (
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/willowbend/lodge-admin/internal/config"
	"github.com/willowbend/lodge-admin/internal/database"
	"github.com/willowbend/lodge-admin/internal/handler"
	"github.com/willowbend/lodge-admin/internal/middleware"
	"github.com/willowbend/lodge-admin/internal/queue"
	"github.com/willowbend/lodge-admin/internal/repository"
	"github.com/willowbend/lodge-admin/internal/router"
	"github.com/willowbend/lodge-admin/internal/service"
	"github.com/willowbend/lodge-admin/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	awsCfg := aws.NewConfig().WithRegion(cfg.StorageRegion)
	if cfg.StorageEndpoint != "" {
		// MinIO and friends need path-style addressing.
		awsCfg = awsCfg.WithEndpoint(cfg.StorageEndpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	blobs := storage.NewS3(sess, cfg.StorageBucket, cfg.StoragePrefix, cfg.StoragePublicURL)

	cabinRepo := repository.NewCabinRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	cabinSvc := service.NewCabinService(cabinRepo, blobs, queue.PublishCabinCleanup)

	// Background consumer that retries deletes for dangling cabin rows.
	go func() {
		if err := queue.StartCleanupConsumer(cabinRepo, blobs); err != nil {
			log.Printf("cleanup consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewCabinHandler(cabinSvc), handler.NewSettingHandler(settingRepo),
		cfg.JWTSecret, rateMW, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
