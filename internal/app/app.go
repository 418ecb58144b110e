// Package app wires configuration, logging, tracing, the database and the services
// shared by both binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"market-backend/internal/core/auth"
	"market-backend/internal/core/config"
	"market-backend/internal/core/database"
	"market-backend/internal/core/logger"
	"market-backend/internal/core/server"
	"market-backend/internal/core/tracing"
	"market-backend/internal/repo"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Services *service.Services

	name        string
	flushLog    func()
	undoStdLog  func()
	stopTracing func(context.Context) error
}

// Bootstrap exits the process on any failure, like the servers it feeds.
func Bootstrap(cfg *config.Config, name string) *App {
	a := &App{Cfg: cfg, name: name}
	if cfg.Log.File.Enable {
		a.Log, a.flushLog = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.File))
	} else {
		a.Log, a.flushLog = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	a.Log = a.Log.With(zap.String("app", cfg.App.Name), zap.String("server", name))
	a.undoStdLog = logger.RedirectStdLog(a.Log, zapcore.InfoLevel)

	stop, err := tracing.Setup(context.Background(), tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: a.serviceName(),
		Environment: cfg.App.Env,
	}, a.Log)
	if err != nil {
		a.Log.Fatal("tracing setup", zap.Error(err))
	}
	a.stopTracing = stop

	a.DB, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             a.Log,
	})
	if err != nil {
		a.Log.Fatal("db open", zap.Error(err))
	}
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(a.DB); err != nil {
			a.Log.Fatal("automigrate failed", zap.Error(err))
		}
		a.Log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	a.Services = service.New(repo.NewStore(a.DB), jwter, a.Log)
	return a
}

func (a *App) Deps() router.Deps {
	mode := "debug"
	if a.Cfg.App.Env == "prod" || a.Cfg.App.Env == "production" {
		mode = "release"
	}
	return router.Deps{
		Log:         a.Log,
		Services:    a.Services,
		Limits:      a.Cfg.Limits,
		Mode:        mode,
		Tracing:     a.Cfg.Tracing.Enabled,
		ServiceName: a.serviceName(),
	}
}

// Run serves h on addr until SIGINT or SIGTERM, then drains for up to 10s.
func (a *App) Run(addr string, h http.Handler, rt, wt, it time.Duration, prefix string) {
	srv := server.BuildServer(addr, h, rt, wt, it)

	host, port := a.Cfg.App.HTTP.Host, a.Cfg.App.HTTP.Port
	if a.name == "admin" {
		host, port = a.Cfg.App.Admin.Host, a.Cfg.App.Admin.Port
	}
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	baseURL := fmt.Sprintf("http://%s:%d", host, port)
	a.Log.Info(a.name+" api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("base", baseURL+prefix),
	)

	go func() {
		if err := server.StartHTTP(srv, a.Log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatal(a.name+" api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.Log.Warn("shutdown", zap.Error(err))
	}
	a.Log.Info(a.name + " api stopped gracefully")
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.stopTracing(ctx); err != nil {
		a.Log.Warn("tracing shutdown", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.undoStdLog()
	a.flushLog()
}

func (a *App) serviceName() string {
	if a.Cfg.Tracing.ServiceName != "" {
		return a.Cfg.Tracing.ServiceName + "-" + a.name
	}
	return a.Cfg.App.Name + "-" + a.name
}
