package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes returns the router with all endpoints and middleware configured.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(g.requestLogger)
	r.Use(g.callerIdentity)

	// The websocket stream lives outside the timeout middleware; event
	// subscriptions are long-lived.
	r.Get("/v1/events/ws", g.eventsWSHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(g.cfg.Gateway.RequestTimeout))
		g.apiRoutes(r)
	})

	return r
}

func (g *Gateway) apiRoutes(r chi.Router) {
	r.Get("/health", g.healthHandler)
	r.Get("/v1/health", g.healthHandler)
	r.Get("/v1/status", g.statusHandler)
	r.Get("/v1/version", g.versionHandler)

	r.Route("/v1/libraries", func(r chi.Router) {
		r.Get("/", g.listLibrariesHandler)
		r.Post("/", g.registerHandler)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", g.libraryInfoHandler)
			r.Delete("/", g.deleteHandler)

			r.Get("/versions", g.listVersionsHandler)
			r.Post("/versions", g.publishHandler)
			r.Get("/versions/{version}", g.versionInfoHandler)
			r.Post("/versions/{version}/deprecate", g.deprecateHandler)

			r.Put("/license", g.setLicenseHandler)
			r.Post("/license/purchase", g.purchaseHandler)
			r.Get("/license/{address}", g.hasLicenseHandler)

			r.Post("/authorizations", g.authorizeHandler)
			r.Delete("/authorizations/{address}", g.revokeHandler)

			r.Get("/access/{address}", g.hasAccessHandler)
		})
	})

	r.Route("/v1/ledger", func(r chi.Router) {
		r.Get("/balances/{address}", g.balanceHandler)
		r.Post("/deposits", g.depositHandler)
	})

	r.Get("/v1/events/recent", g.recentEventsHandler)
}
