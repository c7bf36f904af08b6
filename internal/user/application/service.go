package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmoreau/auctionhouse/internal/shared/auth"
	"github.com/lmoreau/auctionhouse/internal/shared/logger"
	"github.com/lmoreau/auctionhouse/internal/user/domain"
)

var log = logger.GetLogger()

// RegisterDTO is the input for user registration
type RegisterDTO struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult pairs a user with a freshly issued token
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService is the application interface of the user module. It supplies the
// authenticated identity the auction core consumes, nothing in here carries
// auction invariants
type UserService interface {
	Register(ctx context.Context, cmd RegisterDTO) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userService struct {
	users     domain.UserRepository
	jwtSecret string
}

func NewUserService(users domain.UserRepository, jwtSecret string) UserService {
	return &userService{users: users, jwtSecret: jwtSecret}
}

func (s *userService) Register(ctx context.Context, cmd RegisterDTO) (*AuthResult, error) {
	if cmd.Email == "" || cmd.Password == "" || cmd.Username == "" {
		return nil, fmt.Errorf("register: username, email and password are required")
	}

	if existing, err := s.users.GetByEmail(ctx, cmd.Email); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hash,
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("Register: failed to create user", zap.String("email", cmd.Email), zap.Error(err))
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	log.Info("User registered", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
