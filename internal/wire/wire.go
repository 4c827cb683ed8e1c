package wire

import (
	"net/http"

	"seatmap-client/internal/adaptor"
	"seatmap-client/internal/usecase"
	"seatmap-client/pkg/middleware"
	"seatmap-client/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services whose sessions outlive a request.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps, config, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, service, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, service *usecase.Service, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireGuest(r, handler.Guest)
	wireEvent(r, handler.Event)
	wireSeatMap(r, handler.SeatMap)
	wireAuth(r, handler.Auth, service.Auth, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
