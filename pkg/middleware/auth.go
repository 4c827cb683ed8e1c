package middleware

import (
	"context"
	"net/http"

	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

// SessionChecker reports whether the client holds a stored access token.
type SessionChecker interface {
	LoggedIn(ctx context.Context) (bool, error)
}

// RequireLogin rejects requests with 401 unless a login is stored.
func RequireLogin(session SessionChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loggedIn, err := session.LoggedIn(r.Context())
			if err != nil {
				logger.Error("Failed to read stored session",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if !loggedIn {
				logger.Warn("No stored session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Login required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
