package main // hospital booking API server

import (
	"context"
	"log"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/database"
	"github.com/satyahealth/hospital-booking/internal/handler"
	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/payment"
	"github.com/satyahealth/hospital-booking/internal/queue"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/router"
	"github.com/satyahealth/hospital-booking/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(database.Params{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnLifeMin) * time.Minute,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	payments := repository.NewPaymentRepo(db)
	messages := repository.NewMessageRepo(db)

	photos := newPhotoStore(cfg)
	gateway := payment.NewGateway(cfg.UPIVirtualAddr, cfg.PaymentHost)

	var sender notify.EmailSender = notify.StubEmailSender{}
	if sg := notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromEmail, cfg.MailFromName); sg != nil {
		sender = sg
	} else {
		log.Printf("sendgrid not configured, emails will be logged only")
	}
	go func() {
		if err := queue.StartNotificationConsumer(sender); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.Handler
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL, cfg.DashboardURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	router.Register(e, router.Deps{
		Cfg:          cfg,
		Users:        users,
		Auth:         handler.NewAuthHandler(cfg, users),
		User:         handler.NewUserHandler(cfg, users, photos),
		Appointments: handler.NewAppointmentHandler(users, appointments),
		Payments:     handler.NewPaymentHandler(gateway, payments, appointments),
		Messages:     handler.NewMessageHandler(messages),
		Redis:        rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// newPhotoStore builds the S3-backed photo store, or a disabled one when
// no bucket is configured or AWS credentials cannot be resolved.
func newPhotoStore(cfg config.Config) *storage.PhotoStore {
	if cfg.PhotoBucket == "" {
		log.Printf("doctor photo bucket not configured, uploads disabled")
		return storage.NewPhotoStore(nil, "", "")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("aws config: %v, photo uploads disabled", err)
		return storage.NewPhotoStore(nil, "", "")
	}
	return storage.NewPhotoStore(s3.NewFromConfig(awsCfg), cfg.PhotoBucket, awsCfg.Region)
}
