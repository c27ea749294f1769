package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/crewdeck/crewdeck/internal/config"
	"github.com/crewdeck/crewdeck/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the session token into the current user and put it on the
	// request context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token := req.Header.Get("X-Session-Token")
			ctx := req.Context()

			if token != "" {
				u, err := deps.UserService.GetUserByToken(ctx, token)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debug("session token does not match any user")
						http.Error(w, "invalid session", http.StatusUnauthorized)
						return
					}
					log.Errorf("failed to resolve session: %v", err)
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
