package main

import (
	"context"
	"log"
	"time"

	"seatmap-client/cmd"
	"seatmap-client/internal/client"
	"seatmap-client/internal/data/repository"
	"seatmap-client/internal/guest"
	"seatmap-client/internal/push"
	"seatmap-client/internal/usecase"
	"seatmap-client/internal/wire"
	"seatmap-client/pkg/database"
	"seatmap-client/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.String("config", ".env", "path to the env config file")
	pflag.Parse()

	// Load config
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("push_transport", config.Push.Transport),
		zap.String("storage_driver", config.Storage.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect the backends the configured drivers need
	var backends repository.Backends
	if config.Storage.Driver == repository.StorageDriverRedis || config.Push.Transport == push.TransportRedis {
		rdb, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		backends.Redis = rdb
		logger.Info("Redis connected successfully")
	}
	if config.Storage.Driver == repository.StorageDriverPostgres {
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = repository.EnsureStorageSchema(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("Failed to prepare storage schema", zap.Error(err))
		}
		backends.DB = db
		logger.Info("Database connected successfully")
	}

	repos, err := repository.NewRepository(config.Storage.Driver, config.App.Name, backends, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Guest identity, persisted only on request
	var guestOpts []guest.Option
	if config.Storage.PersistGuest {
		guestOpts = append(guestOpts, guest.WithPersistence(repos.Storage))
	}
	guestProvider := guest.NewProvider(logger, guestOpts...)

	// Shared push channel
	transport, err := push.NewTransport(pushConfig(config), backends.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to initialize push transport", zap.Error(err))
	}
	channel := push.NewChannel(transport, logger)
	defer channel.Close()

	bookingClient := client.NewBookingClient(client.BookingConfig{
		BaseURL:        config.Booking.BaseURL,
		SeatsPath:      config.Booking.SeatsPath,
		SeatsLocksPath: config.Booking.SeatsLocksPath,
		EventsPath:     config.Booking.EventsPath,
		Timeout:        config.Booking.Timeout,
	}, logger)
	authClient := client.NewAuthClient(client.AuthConfig{
		BaseURL:      config.Auth.BaseURL,
		LoginPath:    config.Auth.LoginPath,
		RegisterPath: config.Auth.RegisterPath,
		Timeout:      config.Booking.Timeout,
	}, repos.Storage, logger)

	// Wire all dependencies
	app := wire.Wiring(usecase.Deps{
		Repo:    repos,
		Booking: bookingClient,
		Auth:    authClient,
		Guest:   guestProvider,
		Channel: channel,
	}, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, app.Service.SeatMap.Shutdown, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

func pushConfig(config *utils.Config) push.Config {
	return push.Config{
		Transport:      config.Push.Transport,
		URL:            config.Push.URL,
		ChannelName:    config.Push.ChannelName,
		MessagePattern: config.Push.MessagePattern,
		NatsURL:        config.Push.NatsURL,
		ClientName:     config.App.Name,
	}
}
