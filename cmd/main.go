package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusportal/internal/api"
	"campusportal/internal/config"
	"campusportal/internal/mailer"
	"campusportal/internal/notifier"
	"campusportal/internal/portal"
	"campusportal/internal/rabbit"
	"campusportal/internal/repo"
	"campusportal/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("cannot create data directory")
	}

	events := repo.NewEventStore(cfg.DataDir, &log)
	regs := repo.NewRegistrationStore(cfg.DataDir, &log)
	accounts := repo.NewAccountStore(cfg.DataDir, &log)

	var notices service.NoticePublisher
	var worker *notifier.Worker
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	if cfg.AMQPURL != "" {
		rmq, err := rabbit.New(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()
		notices = rmq

		mail := mailer.New(cfg.SMTPAddr, cfg.SMTPHost, cfg.SMTPFrom, cfg.SMTPPassword, &log)
		worker = notifier.NewWorker(rmq, events, regs, mail, &log)
		worker.Start(workerCtx)
	} else {
		log.Info().Msg("AMQP_URL not set, registration notifications disabled")
	}

	svc := service.NewService(events, regs, accounts, &log, notices)
	pages := portal.NewPages(events, regs, accounts, &log, notices)
	app := api.NewRouters(&api.Routers{
		Service:       svc,
		Pages:         pages,
		Log:           &log,
		TemplatesGlob: "web/templates/*.tmpl",
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: app}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("portal running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("received signal %s, shutting down", sig)
	case err := <-serverErrChan:
		log.Error().Err(err).Msg("server error")
	}

	cancelWorker()
	if worker != nil {
		worker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}

	log.Info().Msg("shutdown complete")
}
