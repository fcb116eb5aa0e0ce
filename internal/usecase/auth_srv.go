package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the email exists or the password was
// wrong; handlers map it to 401.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         entity.RoleUser,
		PasswordHash: string(hash),
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.Warn("Login rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *entity.User) (*response.AuthResponse, error) {
	expiry := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Role, s.config.JWT.Secret, expiry)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token: token,
		User:  response.UserToResponse(user),
	}, nil
}
