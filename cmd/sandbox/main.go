package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"github.com/qantani/qantani-go/sandbox"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout))

	cfg := sandbox.DefaultConfig()
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if id := os.Getenv("MERCHANT_ID"); id != "" {
		cfg.MerchantID = id
	}
	if key := os.Getenv("MERCHANT_KEY"); key != "" {
		cfg.MerchantKey = key
	}
	if secret := os.Getenv("MERCHANT_SECRET"); secret != "" {
		cfg.MerchantSecret = secret
	}
	if base := os.Getenv("BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	app := sandbox.NewApp(logger, cfg)
	if err := app.Start(); err != nil {
		logger.Error("starting sandbox", "err", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.Shutdown()
}
