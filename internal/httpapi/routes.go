package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nfarrow/partyrounds-backend/internal/ws"
)

func SetupRoutes(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(RateLimit(api.Cfg.RateLimitRPS, api.Cfg.RateLimitBurst))

	// Public routes
	r.Post("/sessions", api.CreateSession)
	r.Get("/sessions/{code}", api.GetSession)
	r.Get("/playlists", api.ListPlaylists)
	r.Post("/playlists", api.SavePlaylist)
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", ws.Handler(api.Hub))
	return r
}
