package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"seatmap-client/internal/data/repository"
	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/dto/response"

	"go.uber.org/zap"
)

const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

type AuthConfig struct {
	BaseURL      string
	LoginPath    string
	RegisterPath string
	Timeout      time.Duration
}

// AuthClient forwards login and registration to the auth service and keeps
// the issued tokens in client storage.
type AuthClient struct {
	cfg        AuthConfig
	httpClient *http.Client
	storage    repository.StorageRepository
	log        *zap.Logger
}

func NewAuthClient(cfg AuthConfig, storage repository.StorageRepository, log *zap.Logger) *AuthClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &AuthClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		storage:    storage,
		log:        log.With(zap.String("client", "auth")),
	}
}

func (ac *AuthClient) Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error) {
	var tokens response.LoginResponse
	url := joinURL(ac.cfg.BaseURL, ac.cfg.LoginPath)
	if err := doJSON(ctx, ac.httpClient, http.MethodPost, url, req, &tokens); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if err := ac.storage.Set(ctx, AccessTokenKey, tokens.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}
	if err := ac.storage.Set(ctx, RefreshTokenKey, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	ac.log.Info("User logged in", zap.String("email", req.Email))
	return &tokens, nil
}

func (ac *AuthClient) Register(ctx context.Context, req request.RegisterRequest) (*response.RegisterResponse, error) {
	var user response.RegisterResponse
	url := joinURL(ac.cfg.BaseURL, ac.cfg.RegisterPath)
	if err := doJSON(ctx, ac.httpClient, http.MethodPost, url, req, &user); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	ac.log.Info("User registered", zap.String("email", user.Email))
	return &user, nil
}

// Logout forgets the stored tokens. Nothing is sent upstream.
func (ac *AuthClient) Logout(ctx context.Context) error {
	return errors.Join(
		ac.storage.Delete(ctx, AccessTokenKey),
		ac.storage.Delete(ctx, RefreshTokenKey),
	)
}

// LoggedIn reports whether an access token is stored.
func (ac *AuthClient) LoggedIn(ctx context.Context) (bool, error) {
	token, ok, err := ac.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return false, err
	}
	return ok && token != "", nil
}
