package main

import (
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"

	"market-backend/internal/app"
	"market-backend/internal/core/config"
	"market-backend/internal/core/server"
	"market-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	a := app.Bootstrap(cfg, "user")
	defer a.Close()

	h := cfg.App.HTTP
	a.Run(
		server.Addr(h.Host, h.Port),
		router.NewAPIEngine(a.Deps()),
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
		"/api/v1",
	)
}
