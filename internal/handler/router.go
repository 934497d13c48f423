package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/pirate-chat/internal/handler/chat"
	"github.com/zhouzirui/pirate-chat/internal/handler/persona"
	middlewarePkg "github.com/zhouzirui/pirate-chat/internal/middleware"
	personaModel "github.com/zhouzirui/pirate-chat/internal/model/persona"
	chatService "github.com/zhouzirui/pirate-chat/internal/service/chat"
	"github.com/zhouzirui/pirate-chat/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, limiter *middlewarePkg.IPLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	var turnLimiter func(http.Handler) http.Handler
	if limiter != nil {
		turnLimiter = limiter.Middleware
	}

	personaHandler := persona.New(personas)
	chatHandler := chat.New(chatSvc, personas, turnLimiter)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
