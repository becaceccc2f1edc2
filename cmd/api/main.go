package main

import (
	"flag"
	"fmt"
	"os"

	"hr-lite/internal/app"
	"hr-lite/internal/bootstrap"
	"hr-lite/internal/config"
	"hr-lite/internal/middleware"
	"hr-lite/internal/shared/apperror"
	"hr-lite/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config/config.yaml or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.ContextLogger(log),
		middleware.AccessLog(log),
		gin.Recovery(),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
		middleware.SecurityHeaders(),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	)

	// build dependency + routes
	a, err := app.BuildApp(r, cfg, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}

	if err := bootstrap.StartHTTPServer(r, cfg.Server, log, a.ShutdownHooks()...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
