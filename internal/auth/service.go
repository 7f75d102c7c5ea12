package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and
	// disabled accounts alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrMissingFields      = errors.New("username and password are required")
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, u *domain.User) error
}

// Session is the outcome of a successful sign in.
type Session struct {
	Token string
	User  domain.User
}

type Service struct {
	users  UserStore
	tokens *TokenProvider
	cost   int
	log    *zap.Logger
}

func NewService(users UserStore, tokens *TokenProvider, log *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
}

// WithCost sets the bcrypt cost used for new password hashes.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Tokens() *TokenProvider { return s.tokens }

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate checks the credentials and issues a token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("sign in rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		s.log.Info("sign in rejected", zap.String("username", username), zap.String("reason", "disabled"))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Info("sign in rejected", zap.String("username", username), zap.String("reason", "bad password"))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *user}, nil
}

// RegisterInput carries a sign up request. An empty role defaults to USER.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates an enabled account. Nothing is written when the username
// already exists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// The role comes from the caller and sign up is public, so anyone can
	// register as ADMIN. Nothing checks roles today.
	// TODO: force RoleUser for anonymous sign ups once routes enforce roles.
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     role,
		Enabled:  true,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}

// CurrentUser resolves the account named by an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, nil
}
