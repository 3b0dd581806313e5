package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shmulikmak/gf-payarc-add-on/internal/http/handlers"
	"github.com/shmulikmak/gf-payarc-add-on/internal/http/middleware"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payments"
)

// Deps: everything the router wires, constructed in main and injected.
type Deps struct {
	Logger     *slog.Logger
	Store      entries.Store
	Feeds      payments.FeedSource
	ChargeSvc  *payments.Service
	RefundSvc  *payments.RefundService
	WebhookSvc *payments.WebhookService
	AdminToken string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	charge := handlers.NewChargeHandler(d.Logger, d.ChargeSvc, d.Store, d.Feeds)
	refund := handlers.NewRefundHandler(d.Logger, d.RefundSvc)
	entry := handlers.NewEntryHandler(d.Logger, d.Store)
	webhook := handlers.NewWebhookHandler(d.Logger, d.WebhookSvc)

	api := r.Group("/api")
	{
		api.POST("/forms/:form_id/entries", charge.Create)

		admin := api.Group("", middleware.RequireAdmin(d.AdminToken))
		{
			admin.GET("/entries/:entry_id", entry.Get)
			admin.POST("/entries/:entry_id/refund", refund.Refund)
		}
	}

	r.POST("/webhooks/payarc", webhook.Handle)

	return r
}
