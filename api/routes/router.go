package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/garzamfg/shopfloor-backend/api/controllers"
	"github.com/garzamfg/shopfloor-backend/api/middleware"
	"github.com/garzamfg/shopfloor-backend/internal/auth"
	"github.com/garzamfg/shopfloor-backend/internal/cards"
	"github.com/garzamfg/shopfloor-backend/internal/catalog"
	"github.com/garzamfg/shopfloor-backend/internal/orders"
	"github.com/garzamfg/shopfloor-backend/pkg/auth/session"
	"github.com/garzamfg/shopfloor-backend/pkg/config"
	"github.com/garzamfg/shopfloor-backend/pkg/db"
	"github.com/garzamfg/shopfloor-backend/pkg/logger"
	"github.com/garzamfg/shopfloor-backend/pkg/redis"
)

// Deps carries everything the HTTP layer needs. Every field is required
// unless noted otherwise.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *redis.Client
	Session *session.Manager

	Auth    auth.Service
	Catalog catalog.Service
	Orders  orders.Service
	Cards   cards.Service
}

var (
	loginRateLimit    = middleware.NewAuthRateLimitPolicy("login", time.Minute, 20, 5)
	registerRateLimit = middleware.NewAuthRateLimitPolicy("register", time.Hour, 10, 3)
)

// NewRouter assembles the full route tree.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.CORS(d.Config.App.CORSOrigins))

	r.Get("/health/live", controllers.HealthLive(d.Config))
	r.Get("/health/ready", controllers.HealthReady(d.Config, d.Logger, d.DB, d.Redis))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginRateLimit, d.Redis, d.Logger)).
				Post("/login", controllers.AuthLogin(d.Auth, d.Logger))
			r.Post("/logout", controllers.AuthLogout(d.Session, d.Config.JWT, d.Logger))
			r.Post("/refresh", controllers.AuthRefresh(d.Session, d.Config.JWT, d.Logger))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Config.JWT, d.Session, d.Logger))
			r.Use(middleware.Idempotency(d.Redis, d.Logger))

			r.With(middleware.AuthRateLimit(registerRateLimit, d.Redis, d.Logger)).
				Post("/auth/register", controllers.AuthRegister(d.Auth, d.Logger))

			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.ItemCreate(d.Catalog, d.Logger))
				r.Get("/", controllers.ItemList(d.Catalog, d.Logger))
				r.Get("/sku/{sku}", controllers.ItemBySKU(d.Catalog, d.Logger))
				r.Route("/{itemID}", func(r chi.Router) {
					r.Get("/", controllers.ItemDetail(d.Catalog, d.Logger))
					r.Patch("/", controllers.ItemUpdate(d.Catalog, d.Logger))
					r.Delete("/", controllers.ItemDelete(d.Catalog, d.Logger))
					r.Post("/adjust", controllers.ItemAdjust(d.Catalog, d.Logger))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(d.Orders, d.Logger))
				r.Get("/", controllers.OrderList(d.Orders, d.Logger))
				r.Get("/active", controllers.OrderActive(d.Orders, d.Logger))
				r.Get("/stats", controllers.OrderStats(d.Orders, d.Logger))
				r.Route("/{orderID}", func(r chi.Router) {
					r.Get("/", controllers.OrderDetail(d.Orders, d.Logger))
					r.Patch("/", controllers.OrderUpdate(d.Orders, d.Logger))
					r.Delete("/", controllers.OrderDelete(d.Orders, d.Logger))
					r.Post("/start", controllers.OrderStart(d.Orders, d.Logger))
					r.Post("/pause", controllers.OrderPause(d.Orders, d.Logger))
					r.Post("/resume", controllers.OrderResume(d.Orders, d.Logger))
					r.Post("/complete", controllers.OrderComplete(d.Orders, d.Logger))
					r.Post("/cancel", controllers.OrderCancel(d.Orders, d.Logger))
					r.Get("/elapsed", controllers.OrderElapsed(d.Orders, d.Logger))
					r.Route("/components/{componentID}", func(r chi.Router) {
						r.Post("/complete", controllers.OrderComponentComplete(d.Orders, d.Logger))
						r.Post("/timer/start", controllers.OrderComponentTimerStart(d.Orders, d.Logger))
						r.Post("/timer/pause", controllers.OrderComponentTimerPause(d.Orders, d.Logger))
						r.Post("/timer/resume", controllers.OrderComponentTimerResume(d.Orders, d.Logger))
						r.Get("/elapsed", controllers.OrderComponentElapsed(d.Orders, d.Logger))
						r.Put("/materials", controllers.OrderComponentMaterialsReplace(d.Orders, d.Logger))
						r.Post("/materials", controllers.OrderComponentMaterialAdd(d.Orders, d.Logger))
					})
				})
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", controllers.CardList(d.Cards, d.Logger))
				r.Get("/stats", controllers.CardStats(d.Cards, d.Logger))
				r.Route("/{cardID}", func(r chi.Router) {
					r.Get("/", controllers.CardDetail(d.Cards, d.Logger))
					r.Patch("/", controllers.CardUpdate(d.Cards, d.Logger))
					r.Delete("/", controllers.CardDelete(d.Cards, d.Logger))
					r.Post("/start", controllers.CardStart(d.Cards, d.Logger))
					r.Post("/pause", controllers.CardPause(d.Cards, d.Logger))
					r.Post("/resume", controllers.CardResume(d.Cards, d.Logger))
					r.Post("/complete", controllers.CardComplete(d.Cards, d.Logger))
					r.Post("/cancel", controllers.CardCancel(d.Cards, d.Logger))
					r.Post("/priority", controllers.CardSetPriority(d.Cards, d.Logger))
					r.Get("/elapsed", controllers.CardElapsed(d.Cards, d.Logger))
					r.Route("/components/{componentID}", func(r chi.Router) {
						r.Post("/complete", controllers.CardComponentComplete(d.Cards, d.Logger))
						r.Post("/timer/start", controllers.CardComponentTimerStart(d.Cards, d.Logger))
						r.Post("/timer/pause", controllers.CardComponentTimerPause(d.Cards, d.Logger))
						r.Post("/timer/resume", controllers.CardComponentTimerResume(d.Cards, d.Logger))
						r.Get("/elapsed", controllers.CardComponentElapsed(d.Cards, d.Logger))
						r.Put("/materials", controllers.CardComponentMaterialsReplace(d.Cards, d.Logger))
						r.Post("/materials", controllers.CardComponentMaterialAdd(d.Cards, d.Logger))
					})
				})
			})
		})
	})

	return r
}
