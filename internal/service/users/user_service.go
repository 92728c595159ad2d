package users

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("unauthorized")

type UserUseCase interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, user *domain.User) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenIssuer
	log    *zap.SugaredLogger
	newID  func() string
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenIssuer, log *zap.SugaredLogger) *UserService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UserService{
		repo:   repo,
		tokens: tokens,
		log:    log,
		newID:  func() string { return uuid.New().String() },
	}
}

// Login checks the password and starts a new session. Any token issued
// before is invalidated because the session uuid changes.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !auth.CheckPassword(user.PassHash, password) {
		s.log.Infow("login rejected", "username", username)
		return "", ErrUnauthorized
	}

	session := s.newID()
	if err := s.repo.UpdateUUID(ctx, user.ID, session); err != nil {
		return "", err
	}
	token, err := s.tokens.NewToken(auth.Claims{Username: user.Username, UUID: session})
	if err != nil {
		return "", err
	}
	s.log.Infow("user logged in", "user_id", user.ID)
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, user *domain.User) error {
	if user == nil {
		return ErrUnauthorized
	}
	if err := s.repo.UpdateUUID(ctx, user.ID, s.newID()); err != nil {
		return err
	}
	s.log.Infow("user logged out", "user_id", user.ID)
	return nil
}

func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.repo.GetByUsernameAndUUID(ctx, claims.Username, claims.UUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

var _ UserUseCase = (*UserService)(nil)
