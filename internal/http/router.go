package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/bankbridge/internal/http/ledgersync"
	"github.com/MrJamesThe3rd/bankbridge/internal/http/runs"
)

func New(
	syncV1 *ledgersync.Handler,
	runsV1 *runs.Handler,
	metrics http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Handle("/metrics", metrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sync", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			syncV1.Routes(r)
		})

		r.Route("/runs", runsV1.Routes)
	})

	return router
}
