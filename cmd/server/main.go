package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/artshop/internal/config"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/httpserver"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/internal/middleware/auth"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/search"
	"github.com/Skotchmaster/artshop/internal/service"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/logging"
	loggingmw "github.com/Skotchmaster/artshop/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "artshop")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, closeStore, err := repo.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	imageStore, uploadDir := newImageStore(cfg, logger)
	publisher := newPublisher(cfg, logger)

	v := validation.New()
	tokens := &service.TokenService{Repo: store, Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}
	catalog := &service.CatalogService{
		Repo:      store,
		Validator: v,
		Images:    imageStore,
		MaxUpload: cfg.MaxUploadSize,
		Events:    publisher,
		Index:     newSearchIndex(cfg, logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(httpserver.CORS(cfg.CORSOrigins))
	e.Use(httpserver.RateLimit(cfg.RateLimit, cfg.RateWindow))

	httpserver.Register(e, &httpserver.Deps{
		Users: &httpserver.UsersHTTP{
			Users: &service.UserService{
				Repo:      store,
				Tokens:    tokens,
				Validator: v,
				Images:    imageStore,
				MaxUpload: cfg.MaxUploadSize,
				Events:    publisher,
			},
			Cart:  &service.CartService{Repo: store, Validator: v, Events: publisher},
			Likes: &service.LikesService{Repo: store, Catalog: catalog, Events: publisher},
		},
		Products:  &httpserver.ProductsHTTP{Catalog: catalog},
		Orders:    &httpserver.OrdersHTTP{Orders: &service.OrderService{Repo: store, Validator: v, Events: publisher}},
		Guard:     &auth.Guard{Tokens: tokens},
		Ready:     store.Ping,
		UploadURL: cfg.UploadURL,
		UploadDir: uploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("publisher_close_failed", "error", err)
	}
	if err := closeStore(); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("stopped")
}

// newImageStore picks S3 when a bucket is configured. The returned dir is
// non-empty only for the local store, which the router then serves.
func newImageStore(cfg config.Config, logger *slog.Logger) (images.Store, string) {
	if cfg.S3.Bucket == "" {
		logger.Info("image_store", "kind", "local", "dir", cfg.UploadDir)
		return &images.LocalStore{Dir: cfg.UploadDir, BaseURL: cfg.UploadURL}, cfg.UploadDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3store, err := images.NewS3Store(ctx, images.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		Prefix:    cfg.S3.Prefix,
		PublicURL: cfg.S3.PublicURL,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	logger.Info("image_store", "kind", "s3", "bucket", cfg.S3.Bucket)
	return s3store, ""
}

func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("events_disabled", "reason", "no KAFKA_BROKERS")
		return events.Nop{}
	}
	return events.NewAsync(events.NewKafkaProducer(cfg.KafkaBrokers), 5*time.Second, logger)
}

// newSearchIndex returns nil when Elasticsearch is not configured, in which
// case search falls back to the database.
func newSearchIndex(cfg config.Config, logger *slog.Logger) search.Index {
	if cfg.Elastic.URL == "" {
		return nil
	}
	client, err := search.NewClient(search.Config{
		URL:      cfg.Elastic.URL,
		User:     cfg.Elastic.User,
		Password: cfg.Elastic.Password,
	}, logger)
	if err != nil {
		logger.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		return nil
	}
	return &search.ESIndex{Client: client, Index: cfg.Elastic.Index}
}
