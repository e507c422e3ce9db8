package router

import (
	"net/http"
	"vidtube-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, channelHandler *handler.ChannelHandler, authMW *handler.AuthMiddleware, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public routes
	mux.Handle("POST /api/v1/users/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /api/v1/users/login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.Handle("POST /api/v1/users/refresh-token", handler.ErrorHandlingMiddleware(userHandler.RefreshToken))

	// Protected routes
	mux.Handle("POST /api/v1/users/logout", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.Logout)))
	mux.Handle("POST /api/v1/users/change-password", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.ChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.CurrentUser)))
	mux.Handle("PATCH /api/v1/users/account", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.UpdateAccount)))
	mux.Handle("PATCH /api/v1/users/avatar", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.UpdateAvatar)))
	mux.Handle("PATCH /api/v1/users/cover-image", authMW.Handle(handler.ErrorHandlingMiddleware(userHandler.UpdateCoverImage)))
	mux.Handle("GET /api/v1/users/channel/{username}", authMW.Handle(handler.ErrorHandlingMiddleware(channelHandler.ChannelProfile)))
	mux.Handle("GET /api/v1/users/watch-history", authMW.Handle(handler.ErrorHandlingMiddleware(channelHandler.WatchHistory)))

	return corsMiddleware(mux, corsOrigin)
}

// corsMiddleware allows the configured origin to call the API with
// credentials (cookies).
func corsMiddleware(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
