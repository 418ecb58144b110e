package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"market-backend/internal/app"
	"market-backend/internal/core/config"
	"market-backend/internal/core/server"
	"market-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	a := app.Bootstrap(cfg, "admin")
	defer a.Close()

	if b := cfg.Bootstrap; b.Username != "" && b.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := a.Services.Accounts.EnsureAdmin(ctx, b.Username, b.Email, b.Password)
		cancel()
		if err != nil {
			a.Log.Fatal("admin bootstrap failed", zap.Error(err))
		}
	} else {
		a.Log.Warn("admin bootstrap skipped: bootstrap.username or bootstrap.password is empty")
	}

	h := cfg.App.Admin
	a.Run(
		server.Addr(h.Host, h.Port),
		router.NewAdminEngine(a.Deps()),
		5*time.Second, 10*time.Second, 60*time.Second,
		"/admin/v1",
	)
}
