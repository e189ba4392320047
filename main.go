package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/techsrow/locationhubapi/internal/config"
	"github.com/techsrow/locationhubapi/internal/db"
	"github.com/techsrow/locationhubapi/internal/gateway"
	api "github.com/techsrow/locationhubapi/internal/http"
	"github.com/techsrow/locationhubapi/internal/jobs"
	"github.com/techsrow/locationhubapi/internal/notify"
	"github.com/techsrow/locationhubapi/internal/repositories"
	"github.com/techsrow/locationhubapi/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	database, err := intconfig.OpenDB(env)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	var notifier notify.Notifier = notify.Nop{}
	if env.AMQPURL != "" {
		n, err := notify.NewAMQPNotifier(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			log.Printf("warning: AMQP unavailable, events disabled: %v", err)
		} else {
			notifier = n
			defer n.Close()
		}
	}

	bookingRepo := repositories.BookingRepo{DB: database}
	productRepo := repositories.ProductRepo{DB: database}
	mediaRepo := repositories.MediaRepo{DB: database}

	bookingSvc := services.BookingService{
		DB:       database,
		Bookings: bookingRepo,
		Products: productRepo,
		LockTTL:  env.LockTTL,
	}
	paymentSvc := services.PaymentService{
		DB:            database,
		Bookings:      bookingRepo,
		Gateway:       gateway.NewRazorpayGateway(env.RazorpayKeyID, env.RazorpayKeySecret),
		Notifier:      notifier,
		WebhookSecret: []byte(env.WebhookSecret),
		Currency:      env.PaymentCurrency,
	}
	catalogSvc := services.CatalogService{DB: database, Products: productRepo}
	mediaSvc := services.MediaService{DB: database, Media: mediaRepo}
	docsSvc := services.DocsService{Bookings: bookingSvc}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expirer := jobs.LockExpirer{Bookings: bookingRepo, Interval: env.SweepInterval}
	go expirer.Run(ctx)

	r := api.NewRouter(env, api.Deps{
		DB:       database,
		Bookings: bookingSvc,
		Payments: paymentSvc,
		Catalog:  catalogSvc,
		Media:    mediaSvc,
		Docs:     docsSvc,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Println("server stopped cleanly.")
}
