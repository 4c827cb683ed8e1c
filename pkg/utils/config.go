package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Booking  BookingConfig
	Auth     AuthConfig
	Push     PushConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Database DatabaseConfig
	SeatMap  SeatMapConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type BookingConfig struct {
	BaseURL        string
	SeatsPath      string
	SeatsLocksPath string
	EventsPath     string
	Timeout        time.Duration
}

type AuthConfig struct {
	BaseURL      string
	LoginPath    string
	RegisterPath string
}

type PushConfig struct {
	Transport      string
	URL            string
	ChannelName    string
	MessagePattern string
	NatsURL        string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver       string
	PersistGuest bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SeatMapConfig struct {
	ReleaseOnFirstTeardown bool
}

// LoadConfig reads path (a dotenv file) when it exists and overlays the
// process environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "seatmap-client")
	v.SetDefault("PORT", "8090")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")

	v.SetDefault("BOOKING_API_URL", "http://localhost:8081")
	v.SetDefault("BOOKING_SEATS_PATH", "/seats/{eventid}/{venueid}")
	v.SetDefault("BOOKING_SEATS_LOCKS_PATH", "/seats/locks")
	v.SetDefault("BOOKING_EVENTS_PATH", "/events")
	v.SetDefault("BOOKING_TIMEOUT", "10s")

	v.SetDefault("QWEB_API_URL", "http://localhost:8080")
	v.SetDefault("QWEB_LOGIN_PATH", "/api/login")
	v.SetDefault("QWEB_REGISTER_PATH", "/api/register")

	v.SetDefault("PUSH_TRANSPORT", "websocket")
	v.SetDefault("WS_URL", "ws://localhost:3000/ws")
	v.SetDefault("WS_SEATS_EVENTS_CHANNEL_NAME", "seat_events")
	v.SetDefault("WS_SEATS_EVENTS_CHANNEL_MESSAGE_PATTERN", "seat:events:*_*")
	v.SetDefault("NATS_URL", "nats://127.0.0.1:4222")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("GUEST_PERSIST", false)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("RELEASE_ON_FIRST_TEARDOWN", false)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Booking: BookingConfig{
			BaseURL:        v.GetString("BOOKING_API_URL"),
			SeatsPath:      v.GetString("BOOKING_SEATS_PATH"),
			SeatsLocksPath: v.GetString("BOOKING_SEATS_LOCKS_PATH"),
			EventsPath:     v.GetString("BOOKING_EVENTS_PATH"),
			Timeout:        v.GetDuration("BOOKING_TIMEOUT"),
		},
		Auth: AuthConfig{
			BaseURL:      v.GetString("QWEB_API_URL"),
			LoginPath:    v.GetString("QWEB_LOGIN_PATH"),
			RegisterPath: v.GetString("QWEB_REGISTER_PATH"),
		},
		Push: PushConfig{
			Transport:      v.GetString("PUSH_TRANSPORT"),
			URL:            v.GetString("WS_URL"),
			ChannelName:    v.GetString("WS_SEATS_EVENTS_CHANNEL_NAME"),
			MessagePattern: v.GetString("WS_SEATS_EVENTS_CHANNEL_MESSAGE_PATTERN"),
			NatsURL:        v.GetString("NATS_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("STORAGE_DRIVER"),
			PersistGuest: v.GetBool("GUEST_PERSIST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		SeatMap: SeatMapConfig{
			ReleaseOnFirstTeardown: v.GetBool("RELEASE_ON_FIRST_TEARDOWN"),
		},
	}

	return config, nil
}
