package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/config"
	"github.com/tracelink/tracelink/internal/httpapi"
	"github.com/tracelink/tracelink/internal/hub"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, log)

	handler := httpapi.SetupRoutes(h, log)

	log.Info("relay listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
