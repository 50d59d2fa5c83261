package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"servioBack/internal/booking/geo"
	"servioBack/internal/booking/lifecycle"
	"servioBack/internal/booking/otp"
	"servioBack/internal/booking/pay"
	"servioBack/internal/config"
	"servioBack/internal/handlers"
	"servioBack/internal/repositories"
	"servioBack/internal/services"
	"servioBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	checkoutHandler *handlers.CheckoutHandler
	bookingHandler  *handlers.BookingHandler
	locationHandler *handlers.LocationHandler

	bookingRepo *repositories.BookingRepository
	configRepo  *repositories.PricingConfigRepository

	tokens *utils.Manager
}

func initializeApp(cfg config.Config, db *sql.DB, errorLog, infoLog *log.Logger) *application {
	// Repositories
	bookingRepo := &repositories.BookingRepository{DB: db}
	configRepo := &repositories.PricingConfigRepository{DB: db}

	// Redis-backed stores
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	locator := geo.NewWorkerLocator(rdb)

	otpTTL := time.Duration(cfg.Otp.TTLSeconds) * time.Second
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	gate := otp.NewGate(otp.NewRedisStore(rdb), otpTTL)

	// Domain services
	lifecycleService := lifecycle.NewService(bookingRepo, gate)
	gateway := pay.NewClient(nil, cfg.Gateway.KeyID, cfg.Gateway.Secret, cfg.Gateway.BaseURL, nil)
	orchestrator := pay.NewOrchestrator(gateway, 15*time.Minute)

	couponClient := services.NewCouponClient(nil, cfg.Coupon.BaseURL, nil)
	walletClient := services.NewWalletClient(nil, cfg.Wallet.BaseURL, nil)
	smsSender := services.NewSmsSender(nil, cfg.Sms.APIKey, cfg.Sms.Endpoint)

	checkoutService := services.NewCheckoutService(couponClient, walletClient, configRepo, locator, orchestrator, lifecycleService)
	bookingService := &services.BookingService{
		Lifecycle: lifecycleService,
		Lister:    bookingRepo,
		Locator:   locator,
		Config:    configRepo,
		Sms:       smsSender,
	}

	tokens, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		db:              db,
		checkoutHandler: handlers.NewCheckoutHandler(checkoutService),
		bookingHandler:  handlers.NewBookingHandler(bookingService),
		locationHandler: handlers.NewLocationHandler(locator),
		bookingRepo:     bookingRepo,
		configRepo:      configRepo,
		tokens:          tokens,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
