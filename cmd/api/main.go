package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/trendora/backend/pkg/auth"
	"github.com/trendora/backend/pkg/idempotency"
	"github.com/trendora/backend/pkg/logging"
	"github.com/trendora/backend/pkg/mongodb"
	"github.com/trendora/backend/pkg/shutdown"
	"github.com/trendora/backend/pkg/tracing"

	cartapp "github.com/trendora/backend/internal/cart/application"
	cartcatalog "github.com/trendora/backend/internal/cart/infrastructure/catalog"
	carthttp "github.com/trendora/backend/internal/cart/infrastructure/http"
	cartmongo "github.com/trendora/backend/internal/cart/infrastructure/mongo"
	catalogapp "github.com/trendora/backend/internal/catalog/application"
	cataloghttp "github.com/trendora/backend/internal/catalog/infrastructure/http"
	catalogmongo "github.com/trendora/backend/internal/catalog/infrastructure/mongo"
	couponapp "github.com/trendora/backend/internal/coupon/application"
	couponhttp "github.com/trendora/backend/internal/coupon/infrastructure/http"
	couponmongo "github.com/trendora/backend/internal/coupon/infrastructure/mongo"
	"github.com/trendora/backend/internal/media"
	orderapp "github.com/trendora/backend/internal/order/application"
	"github.com/trendora/backend/internal/order/infrastructure/gateway"
	orderhttp "github.com/trendora/backend/internal/order/infrastructure/http"
	ordermongo "github.com/trendora/backend/internal/order/infrastructure/mongo"
	settingsapp "github.com/trendora/backend/internal/settings/application"
	settingshttp "github.com/trendora/backend/internal/settings/infrastructure/http"
	settingsmongo "github.com/trendora/backend/internal/settings/infrastructure/mongo"
	userapp "github.com/trendora/backend/internal/user/application"
	userhttp "github.com/trendora/backend/internal/user/infrastructure/http"
	usermongo "github.com/trendora/backend/internal/user/infrastructure/mongo"
	usersmtp "github.com/trendora/backend/internal/user/infrastructure/smtp"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Configuration
	mongoURL := env("MONGO_URL", "mongodb://localhost:27017")
	mongoDB := env("MONGO_DB", "trendora")
	redisAddr := env("REDIS_ADDR", "localhost:6379")
	httpAddr := env("HTTP_ADDR", ":8080")
	otlpURL := env("OTLP_URL", "http://localhost:4318")
	jwtSecret := env("JWT_SECRET", "dev-secret-change-me")
	adminEmail := env("ADMIN_EMAIL", "admin@trendora.local")
	smtpHost := env("SMTP_HOST", "localhost")
	smtpPort := env("SMTP_PORT", "587")
	smtpUser := env("SMTP_USER", "")
	smtpPass := env("SMTP_PASS", "")
	smtpFrom := env("SMTP_FROM", "no-reply@trendora.local")
	cdnURL := env("CDN_URL", "https://cdn.example.com/api")
	cdnKey := env("CDN_API_KEY", "")
	gatewayURL := env("GATEWAY_URL", "https://gateway.example.com")
	gatewayKeyID := env("GATEWAY_KEY_ID", "")
	gatewaySecret := env("GATEWAY_SECRET", "")

	tp, err := tracing.Init(ctx, "storefront-api", otlpURL, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// MongoDB
	db, err := mongodb.Connect(ctx, mongoURL, mongoDB)
	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	// Shared infrastructure
	issuer := auth.NewIssuer(jwtSecret, 7*24*time.Hour)
	locks := idempotency.NewStore(rdb, 30*time.Minute)
	cdn := media.NewClient(cdnURL, cdnKey)
	gw := gateway.NewClient(gatewayURL, gatewayKeyID, gatewaySecret)
	mailer := usersmtp.NewMailer(smtpHost, smtpPort, smtpUser, smtpPass, smtpFrom)

	// Users
	userRepo := usermongo.NewRepository(db)
	if err := userRepo.CreateIndexes(ctx); err != nil {
		log.Error("user index create failed", "err", err)
		os.Exit(1)
	}
	userSvc := userapp.NewService(log, userRepo, rdb, mailer, issuer, adminEmail)
	userHandler := userhttp.NewHandler(log, userSvc)

	// Catalog
	catalogRepo := catalogmongo.NewRepository(db)
	catalogSvc := catalogapp.NewService(log, catalogRepo, cdn)
	catalogHandler := cataloghttp.NewHandler(log, catalogSvc)

	// Cart
	cartRepo := cartmongo.NewRepository(db)
	cartSvc := cartapp.NewService(log, cartRepo, cartcatalog.NewReader(catalogSvc))
	cartHandler := carthttp.NewHandler(log, cartSvc)

	// Settings
	settingsRepo := settingsmongo.NewRepository(db)
	settingsSvc := settingsapp.NewService(log, settingsRepo, cdn, rdb)
	settingsHandler := settingshttp.NewHandler(log, settingsSvc)

	// Coupons
	couponRepo := couponmongo.NewRepository(db)
	couponSvc := couponapp.NewService(log, couponRepo, catalogSvc)
	couponHandler := couponhttp.NewHandler(log, couponSvc)

	// Orders
	orderRepo := ordermongo.NewRepository(db)
	orderSvc := orderapp.NewService(log, orderRepo, cartSvc, couponSvc, settingsSvc, gw, locks)
	orderHandler := orderhttp.NewHandler(log, orderSvc)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/user", userHandler.PublicRoutes())
		r.Mount("/product", catalogHandler.PublicRoutes())
		r.Mount("/coupon", couponHandler.PublicRoutes())
		r.Mount("/settings", settingsHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))
			r.Mount("/profile", userHandler.UserRoutes())
			r.Mount("/cart", cartHandler.Routes())
			r.Mount("/order", orderHandler.UserRoutes())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(issuer), auth.RequireAdmin)
			r.Mount("/product", catalogHandler.AdminRoutes())
			r.Mount("/order", orderHandler.AdminRoutes())
			r.Mount("/coupon", couponHandler.AdminRoutes())
			r.Mount("/settings", settingsHandler.AdminRoutes())
		})
	})

	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      otelhttp.NewHandler(r, "storefront-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront-api shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
