package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ecom/internal/cache"
	"ecom/internal/config"
	"ecom/internal/es"
	"ecom/internal/httpserver"
	loggingmw "ecom/internal/middleware/logging"
	"ecom/internal/logging"
	"ecom/internal/mykafka"
	"ecom/internal/repo"
	"ecom/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.MongoURI, "MONGODB_URI")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.ConnectMongo(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("mongo init: %v", err)
	}

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = config.EnsureIndexes(idxCtx, db)
	idxCancel()
	if err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	productCache := cache.NewProductCache(cfg.RedisURL)
	defer productCache.Close()

	searchClient, err := newSearchClient(cfg)
	if err != nil {
		log.Printf("warning: elasticsearch unavailable, search disabled: %v", err)
	}

	authSvc := &service.AuthService{
		Users:     repo.NewMongoUserRepo(db),
		Producer:  producer,
		JWTSecret: cfg.JWTSecret,
	}
	catalogSvc := &service.CatalogService{
		Products: repo.NewMongoProductRepo(db),
		Cache:    productCache,
		Producer: producer,
		ES:       searchClient,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		SearchHandler:  httpserver.NewSearchHTTP(searchClient),
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()
	_ = db.Client().Disconnect(disconnectCtx)

	log.Println("server stopped")
}

func newSearchClient(cfg config.Config) (*elasticsearch.Client, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}
	return es.NewClient(cfg)
}
