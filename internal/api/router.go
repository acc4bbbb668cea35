package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/rohits-web03/snapvault/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/snapvault/internal/api/handlers"
	"github.com/rohits-web03/snapvault/internal/api/middleware"
	"github.com/rohits-web03/snapvault/internal/config"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- AUTH ----------
	mainMux.HandleFunc("POST /api/v1/auth/signup", handlers.Signup)
	mainMux.HandleFunc("POST /api/v1/auth/login", handlers.Login)
	mainMux.HandleFunc("GET /api/v1/auth/google/login", handlers.HandleGoogleLogin)
	mainMux.HandleFunc("GET /api/v1/auth/google/callback", handlers.HandleGoogleCallback)
	mainMux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(handlers.Me)))
	mainMux.Handle("GET /api/v1/auth/events", middleware.AuthMiddleware(http.HandlerFunc(handlers.ListHostedEvents)))
	mainMux.Handle("POST /api/v1/auth/events", middleware.AuthMiddleware(http.HandlerFunc(handlers.CreateHostedEvent)))

	// ---------- EVENTS ----------
	mainMux.HandleFunc("GET /api/v1/events", handlers.ListEvents)
	mainMux.HandleFunc("POST /api/v1/events", handlers.CreateEvent) // deprecated anonymous path
	mainMux.HandleFunc("GET /api/v1/events/{id}", handlers.GetEvent)
	mainMux.Handle("DELETE /api/v1/events/{id}", middleware.AuthMiddleware(http.HandlerFunc(handlers.DeleteEvent)))
	mainMux.HandleFunc("GET /api/v1/events/{id}/photos", handlers.ListEventPhotos)
	mainMux.HandleFunc("GET /api/v1/events/{id}/gallery", handlers.EventGallery)
	mainMux.HandleFunc("GET /api/v1/events/{id}/qr", handlers.EventQRCode)
	mainMux.HandleFunc("POST /api/v1/events/{id}/register", handlers.RegisterGuest)

	// ---------- PHOTOS ----------
	mainMux.Handle("POST /api/v1/photos", middleware.OptionalAuth(http.HandlerFunc(handlers.SubmitPhoto)))
	mainMux.Handle("POST /api/v1/photos/presign", middleware.OptionalAuth(http.HandlerFunc(handlers.PresignUpload)))
	mainMux.HandleFunc("GET /api/v1/photos/{id}/media", handlers.GetPhotoMedia)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
