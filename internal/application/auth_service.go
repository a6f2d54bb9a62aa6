package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

type AuthService struct {
	Users  repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenService
	Logger *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenService, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Logger: logger}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Name     string `json:"name" validate:"required,min=3"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AdminLoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Admin     *entity.PublicUser `json:"admin"`
}

// Register creates a USER account and returns its public projection.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Validation("Validation failed", validation.ToDetails(err))
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Infrastructure("failed to hash password", err)
	}
	u := &entity.User{Email: in.Email, Password: hash, Name: in.Name, Role: entity.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.New(apperror.KindDuplicateEmail, "Email already registered")
		}
		return nil, apperror.Infrastructure("failed to create user", err)
	}
	loggerOrDiscard(s.Logger).WithField("user_id", u.ID).Info("user registered")
	return u.Public(), nil
}

// AuthenticateUser is the login path for regular accounts. Admin accounts are rejected.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.authenticate(ctx, "user", email, password, func(r entity.Role) bool {
		return r.Satisfies(entity.RoleUser) && !r.Satisfies(entity.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}
	token, exp, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

// AuthenticateAdmin is the login path for ADMIN accounts only.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, email, password string) (*AdminLoginResult, error) {
	u, err := s.authenticate(ctx, "admin", email, password, func(r entity.Role) bool {
		return r.Satisfies(entity.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}
	token, exp, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResult{Token: token, ExpiresAt: exp, Admin: u.Public()}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Infrastructure("failed to load user", err)
	}
	return u.Public(), nil
}

// authenticate runs the password check whether or not the account exists and
// reports every rejection with the same error.
func (s *AuthService) authenticate(ctx context.Context, surface, email, password string, allowed func(entity.Role) bool) (*entity.User, error) {
	log := loggerOrDiscard(s.Logger).WithFields(logrus.Fields{"surface": surface, "email": email})

	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Infrastructure("failed to load user", err)
		}
		s.Hasher.Verify(password, s.placeholderHash())
		log.Info("login rejected")
		return nil, apperror.InvalidCredentials()
	}

	ok := s.Hasher.Verify(password, u.Password)
	if !ok || !allowed(u.Role) {
		log.WithField("user_id", u.ID).Info("login rejected")
		return nil, apperror.InvalidCredentials()
	}
	log.WithField("user_id", u.ID).Info("login succeeded")
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (string, time.Time, error) {
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		loggerOrDiscard(s.Logger).WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return "", time.Time{}, apperror.Infrastructure("failed to issue token", err)
	}
	return token, exp, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("placeholder-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
