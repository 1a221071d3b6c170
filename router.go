package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "libris-backend/docs"
	"libris-backend/internal/catalog"
	"libris-backend/internal/dashboard"
	"libris-backend/internal/loans"
	"libris-backend/internal/platform/auth"
	"libris-backend/internal/platform/clock"
	"libris-backend/internal/platform/config"
	"libris-backend/internal/reconcile"
	"libris-backend/internal/reservations"
)

type deps struct {
	cfg      *config.Config
	log      *slog.Logger
	conn     *sqlx.DB
	sessions auth.SessionStore
	clock    clock.Clock
}

// newRouter builds the HTTP surface and returns the auth service so main can
// run the admin bootstrap against the same stores.
func newRouter(d deps) (*gin.Engine, *auth.Service) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if d.cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	authSvc := auth.NewService(auth.NewStore(d.conn), d.sessions, auth.Options{
		Secret:         []byte(d.cfg.Auth.JWTSecret),
		TokenTTL:       d.cfg.Auth.TokenTTL,
		SessionTimeout: d.cfg.Auth.SessionTimeout,
		Clock:          d.clock,
		Logger:         d.log,
	})
	rules := d.cfg.Library.Rules()

	api := r.Group("/api/v1")
	user := api.Group("", auth.RequireAuth(authSvc))
	admin := api.Group("", auth.RequireAuth(authSvc), auth.RequireRole(auth.RoleAdmin))

	auth.RegisterRoutes(api, user, admin, authSvc)
	catalog.RegisterRoutes(api, admin, catalog.NewService(catalog.NewStore(d.conn), d.log))
	loans.RegisterRoutes(user, admin, loans.NewService(loans.NewStore(d.conn), d.clock, rules, d.log))
	reservations.RegisterRoutes(user, reservations.NewService(reservations.NewStore(d.conn), d.clock, d.log))
	reconcile.RegisterRoutes(admin, reconcile.NewService(reconcile.NewStore(d.conn), d.clock, rules.FinePerDay, d.log))
	dashboard.RegisterRoutes(admin, dashboard.NewService(dashboard.NewStore(d.conn), d.log))

	return r, authSvc
}
