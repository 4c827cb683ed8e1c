package usecase

import (
	"context"
	"fmt"

	"seatmap-client/internal/dto/request"
	"seatmap-client/internal/dto/response"

	"go.uber.org/zap"
)

// AuthGateway is satisfied by client.AuthClient.
type AuthGateway interface {
	Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error)
	Register(ctx context.Context, req request.RegisterRequest) (*response.RegisterResponse, error)
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) (bool, error)
}

type authService struct {
	gateway AuthGateway
	log     *zap.Logger
}

func NewAuthService(gateway AuthGateway, log *zap.Logger) AuthService {
	return &authService{
		gateway: gateway,
		log:     log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	user, err := s.gateway.Register(ctx, *req)
	if err != nil {
		s.log.Warn("Registration failed", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("register: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	tokens, err := s.gateway.Login(ctx, *req)
	if err != nil {
		s.log.Warn("Login failed", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("login: %w", err)
	}

	return tokens, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.gateway.Logout(ctx); err != nil {
		s.log.Error("Failed to clear stored tokens", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) LoggedIn(ctx context.Context) (bool, error) {
	return s.gateway.LoggedIn(ctx)
}
