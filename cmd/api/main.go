package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/app"
	"github.com/elkisser/the-cookie-box/internal/bootstrap"
	"github.com/elkisser/the-cookie-box/internal/pkg/config"
	"github.com/elkisser/the-cookie-box/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(logger.Options{
		Service: "the-cookie-box",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	application, err := app.BuildApp(router, cfg, zlog)
	if err != nil {
		zlog.Fatal("build app failed", zap.Error(err))
	}
	defer application.Publisher.Close()
	defer application.Sessions.CloseAll()

	if err := bootstrap.StartHTTPServer(router, bootstrap.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, zlog); err != nil {
		zlog.Fatal("http server failed", zap.Error(err))
	}
}
