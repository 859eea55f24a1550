package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkworks/dealgate/internal/http/admin"
	"github.com/inkworks/dealgate/internal/http/purchaseorder"
	"github.com/inkworks/dealgate/internal/http/quote"
	"github.com/inkworks/dealgate/internal/http/review"
)

func New(
	reviewV1 *review.Handler,
	quoteV1 *quote.Handler,
	purchaseOrderV1 *purchaseorder.Handler,
	adminV1 *admin.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// The portal front end is served from arbitrary origins, so every
	// endpoint is CORS-open and answers its own preflight.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/review", reviewV1.Routes)
		r.Route("/quote", quoteV1.Routes)

		r.Route("/purchase-order", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			purchaseOrderV1.Routes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			adminV1.Routes(r)
		})
	})

	return router
}
