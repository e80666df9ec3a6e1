package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/webhook-messenger/config"
	"github.com/marcelsud/webhook-messenger/history"
	historyredis "github.com/marcelsud/webhook-messenger/history/redis"
	"github.com/marcelsud/webhook-messenger/identity"
	"github.com/marcelsud/webhook-messenger/internal/http/chi"
	"github.com/marcelsud/webhook-messenger/metrics"
	"github.com/marcelsud/webhook-messenger/targets"
	"github.com/marcelsud/webhook-messenger/upload"
	"github.com/marcelsud/webhook-messenger/upload/local"
	"github.com/marcelsud/webhook-messenger/webhook"
)

const TIMEOUT = 30 * time.Second

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := historyredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)

	store, err := local.NewStore(cfg.UploadDir, "/uploads")
	if err != nil {
		fmt.Println(err)
		return
	}

	recorder, err := metrics.NewRecorder()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer recorder.Shutdown(ctx)

	var loader *targets.Loader
	if cfg.TargetsFile != "" {
		loader = targets.NewLoader()
		if err := loader.Load(cfg.TargetsFile); err != nil {
			fmt.Println(err)
			return
		}
	}

	svc := chi.Services{
		Webhook:   webhook.NewClient(cfg.WebhookTimeout()),
		History:   history.NewService(repo),
		Identity:  identity.NewService(),
		Upload:    upload.NewService(store, cfg.UploadMaxBytes),
		Targets:   loader,
		Metrics:   recorder,
		UploadDir: cfg.UploadDir,
	}

	r := chi.Handlers(ctx, svc)
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
