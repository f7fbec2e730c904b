package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/asaas"
	"github.com/vittahq/vitta-api/internal/config"
	"github.com/vittahq/vitta-api/internal/database"
	"github.com/vittahq/vitta-api/internal/handler"
	"github.com/vittahq/vitta-api/internal/notify"
	"github.com/vittahq/vitta-api/internal/queue"
	"github.com/vittahq/vitta-api/internal/repository"
	"github.com/vittahq/vitta-api/internal/router"
	"github.com/vittahq/vitta-api/internal/service"
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

	rdb := config.NewRedisClient()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	users := repository.NewUserRepo(db)
	statuses := repository.NewStatusRepo(db)
	payments := repository.NewPaymentRepo(db)
	plans := repository.NewPlanRepo(db)
	checkins := repository.NewCheckinRepo(db)
	staff := repository.NewStaffRepo(db)
	reports := repository.NewReportRepo(db)
	resetCodes := repository.NewResetCodeStore(rdb)

	reconciler := service.NewReconciler(db, statuses)
	gateway := asaas.NewClient(cfg.AsaasAPIKey, cfg.AsaasBaseURL)

	// Realtime dashboard: hub plus the activity poller feeding it.
	hub := notify.NewHub()
	poller := notify.NewPoller(hub, reports, cfg.NotifyTick, cfg.NotifyLookback)
	go poller.Run(ctx)

	// Audit-trail consumer; runs a reconnect loop until shutdown.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment-consumer: %v", err)
		}
	}()

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, reconciler, resetCodes)
	userH := handler.NewUserHandler(users, reconciler, hub)
	planH := handler.NewPlanHandler(plans)
	payH := handler.NewPaymentHandler(db, payments, plans, users, statuses, reconciler, hub, gateway)
	checkH := handler.NewCheckinHandler(checkins, payments, users)
	staffH := handler.NewStaffHandler(cfg, staff)
	reportH := handler.NewReportHandler(reports)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, hub)
	router.RegisterUserRoutes(e, authH, userH)
	router.RegisterPlanRoutes(e, planH)
	router.RegisterPaymentRoutes(e, payH)
	router.RegisterCheckinRoutes(e, checkH)
	router.RegisterStaffRoutes(e, staffH, reportH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		_ = e.Close()
	}()
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
