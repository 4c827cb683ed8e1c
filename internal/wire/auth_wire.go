package wire

import (
	"seatmap-client/internal/adaptor"
	"seatmap-client/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, session middleware.SessionChecker, logger *zap.Logger) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.With(middleware.RequireLogin(session, logger)).Post("/logout", authHandler.Logout)
	})
}
