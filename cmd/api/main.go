package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/inkworks/dealgate/internal/config"
	"github.com/inkworks/dealgate/internal/crm"
	dealgateHttp "github.com/inkworks/dealgate/internal/http"
	adminHandler "github.com/inkworks/dealgate/internal/http/admin"
	poHandler "github.com/inkworks/dealgate/internal/http/purchaseorder"
	quoteHandler "github.com/inkworks/dealgate/internal/http/quote"
	reviewHandler "github.com/inkworks/dealgate/internal/http/review"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
	"github.com/inkworks/dealgate/internal/submission"
	"github.com/inkworks/dealgate/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var (
		crmClient = crm.NewClient(cfg.CRM.BaseURL, cfg.CRM.Token)
		authority = token.NewAuthority(cfg.Portal.Secret)
		reporter  = notify.NewReporter(cfg.Notify.AlertURL, cfg.App.Name)
		webhook   = notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Await)
	)

	var (
		resolverService = resolver.NewService(crmClient)
		pipeline        = submission.NewPipeline(crmClient, resolverService, authority, webhook)
	)

	var (
		reviewH = reviewHandler.NewHandler(cfg, resolverService, reporter)
		quoteH  = quoteHandler.NewHandler(cfg, resolverService, authority, reporter)
		poH     = poHandler.NewHandler(cfg, pipeline, reporter)
		adminH  = adminHandler.NewHandler(cfg, crmClient)
	)

	router := dealgateHttp.New(reviewH, quoteH, poH, adminH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
