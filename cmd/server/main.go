package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"stock-assistant/internal/bot"
	"stock-assistant/internal/config"
	"stock-assistant/internal/conversation"
	"stock-assistant/internal/dataset"
	"stock-assistant/internal/handler"
	"stock-assistant/internal/job"
	"stock-assistant/internal/logging"
	"stock-assistant/internal/session"
	"stock-assistant/internal/sshapp"
	"stock-assistant/internal/tui"
	"stock-assistant/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "stock-assistant/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	loadDatasetFunc      = dataset.Load
	initTracerFunc       = tracing.InitTracer
	newSessionsFunc      = session.NewManager
	newReaperFunc        = job.NewSessionReaper
	startReaperFunc      = func(r *job.SessionReaper, ctx context.Context) { go r.Start(ctx) }
	startTelegramBotFunc = bot.StartTelegramBot
	newSSHServerFunc     = sshapp.NewServer
	serveSSHFunc         = func(ctx context.Context, srv *ssh.Server, logger *log.Logger) {
		go func() {
			if err := sshapp.Serve(ctx, srv, logger); err != nil {
				logger.Error("ssh server failed", "err", err)
			}
		}()
	}
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Stock Assistant API
// @version         1.0
// @description     Guided stock price conversations over HTTP and WebSocket.

// @host      localhost:8080
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		logger.Fatal("failed to initialize tracer", "err", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("error shutting down tracer provider", "err", err)
		}
	}()

	// A broken dataset is not fatal: every conversation opens on the
	// data-load error message instead.
	var catalog conversation.Catalog
	if c, err := loadDatasetFunc(cfg.DatasetPath); err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "err", err)
	} else {
		catalog = c
	}

	sessions := newSessionsFunc(session.Config{
		Catalog: catalog,
		Controller: conversation.ControllerConfig{
			Debounce: cfg.Debounce,
			Typing:   cfg.TypingDelay,
			Tracer:   tracer,
			Logger:   logger,
		},
		IdleTimeout: cfg.SessionIdle,
		Logger:      logger,
	})
	defer sessions.Close()

	startReaperFunc(newReaperFunc(tracer, sessions, 0, logger), ctx)

	assistant, err := startTelegramBotFunc(cfg.TelegramBotToken, sessions, logger)
	if err != nil {
		logger.Error("telegram bot disabled", "err", err)
	}
	defer assistant.Stop()

	if cfg.SSHEnabled {
		srv, err := newSSHServerFunc(sshapp.Config{
			Bind:               cfg.SSHBind,
			Port:               cfg.SSHPort,
			HostKeyPath:        cfg.SSHHostKeyPath,
			AuthorizedKeysPath: cfg.SSHAuthorizedKeys,
			Services: tui.Services{
				Catalog:  catalog,
				Debounce: cfg.Debounce,
				Typing:   cfg.TypingDelay,
				Logger:   logger,
			},
			Logger: logger,
		})
		if err != nil {
			logger.Error("ssh server disabled", "err", err)
		} else {
			serveSSHFunc(ctx, srv, logger)
		}
	}

	h := newHandlerFunc(tracer, catalog, sessions, logger)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("stock-assistant"))
	r.Use(handler.CORS(cfg.CORSAllowedOrigins))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    httpAddr(cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	logger.Info("server exiting")
}

func httpAddr(port int) string {
	if port <= 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}

