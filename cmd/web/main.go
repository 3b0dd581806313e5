package main

import (
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	apphttp "github.com/shmulikmak/gf-payarc-add-on/internal/http"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payarc"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payments"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	bearer := os.Getenv("PAYARC_BEARER_TOKEN")
	if bearer == "" {
		log.Fatal("PAYARC_BEARER_TOKEN environment variable is required")
	}

	gatewayCfg := payarc.Config{
		Sandbox:             os.Getenv("PAYARC_SANDBOX") == "1",
		BearerToken:         bearer,
		StatementDescriptor: os.Getenv("PAYARC_STATEMENT_DESCRIPTOR"),
	}
	gateway := payarc.NewClient(gatewayCfg, logger)

	store := entries.NewGormStore(db)
	feedRepo := feeds.NewRepo(db)

	webhookCfg := payments.WebhookConfig{
		Enabled: os.Getenv("PAYARC_WEBHOOKS_ENABLED") != "0",
		Secret:  os.Getenv("PAYARC_WEBHOOK_SECRET"),
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:     logger,
		Store:      store,
		Feeds:      feedRepo,
		ChargeSvc:  payments.NewService(gateway, store, logger),
		RefundSvc:  payments.NewRefundService(gateway, store, feedRepo, logger),
		WebhookSvc: payments.NewWebhookService(webhookCfg, store, payments.NewGormEventLog(db), logger),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("listening", "addr", addr, "sandbox", gatewayCfg.Sandbox)
	_ = r.Run(addr)
}
