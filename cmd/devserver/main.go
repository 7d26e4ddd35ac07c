package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	apicontext "github.com/dtroode/classroom-auth/internal/api/http/context"
	"github.com/dtroode/classroom-auth/internal/api/http/router"
	httpServer "github.com/dtroode/classroom-auth/internal/api/http/server"
	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/server"
	"github.com/dtroode/classroom-auth/internal/service"
	"github.com/dtroode/classroom-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	demoAuth := service.NewDemoAuth(tokenManager, cfg.Backend.DemoLatency, logger)
	ctxMgr := apicontext.NewManager()

	r := router.New(demoAuth, demoAuth, ctxMgr, logger)
	apiServer := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.DevServer.Port))

	sl := server.SecurityLayerFor(cfg.DevServer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.DevServer.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
