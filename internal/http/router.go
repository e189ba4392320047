package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/techsrow/locationhubapi/internal/config"
	h "github.com/techsrow/locationhubapi/internal/http/handlers"
	"github.com/techsrow/locationhubapi/internal/http/middleware"
	"github.com/techsrow/locationhubapi/internal/services"
	"github.com/techsrow/locationhubapi/internal/validation"
)

// Deps carries everything the router mounts.
type Deps struct {
	DB       *sql.DB
	Bookings services.BookingService
	Payments services.PaymentService
	Catalog  services.CatalogService
	Media    services.MediaService
	Docs     services.DocsService
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	validate := validation.New()
	secret := []byte(env.JWTSecret)
	requireAuth := middleware.RequireAuth(secret)
	requireAdmin := middleware.RequireRoles("admin", "owner")

	system := h.SystemHandler{DB: deps.DB}
	authH := h.AuthHandler{DB: deps.DB, JWTSecret: secret}
	bookingH := h.BookingHandler{Bookings: deps.Bookings, Payments: deps.Payments, Docs: deps.Docs, Validate: validate}
	webhookH := h.WebhookHandler{Payments: deps.Payments}
	productH := h.ProductHandler{Catalog: deps.Catalog, Validate: validate}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", authH.Login)
		auth.POST("/register", authH.Register)

		bookings := api.Group("/bookings")
		bookings.POST("/lock", bookingH.Lock)
		// The gateway signs this route; it must stay ahead of /:id matching.
		bookings.POST("/webhook", webhookH.Receive)
		bookings.GET("/:id", bookingH.Get)
		bookings.PUT("/:id/customer", bookingH.UpdateCustomer)
		bookings.POST("/:id/pay", bookingH.Pay)
		bookings.POST("/:id/cancel", bookingH.Cancel)
		bookings.GET("/:id/invoice", bookingH.Invoice)

		products := api.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.Get)
		products.POST("", requireAuth, requireAdmin, productH.Create)
		products.POST("/:id/slots", requireAuth, requireAdmin, productH.CreateSlot)

		for _, collection := range h.MediaCollections {
			mediaH := h.MediaHandler{Media: deps.Media, Collection: collection}
			g := api.Group("/" + collection)
			g.GET("", mediaH.List)
			g.POST("", requireAuth, requireAdmin, mediaH.Create)
			g.PUT("/reorder", requireAuth, requireAdmin, mediaH.Reorder)
			g.DELETE("/:id", requireAuth, requireAdmin, mediaH.Delete)
		}
	}

	return r
}
