package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// bcrypt only reads the first 72 bytes of a password
const maxPasswordBytes = 72

// AuthService registers users and checks their credentials
type AuthService struct {
	userRepo domain.UserRepository
	cost     int
	log      *logger.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
		log:      log.Named("auth_service"),
	}
}

// Signup creates a user with a bcrypt password hash
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "All fields are required"}
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	// The unique index still catches a signup racing this one.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", logger.Field("user_id", user.ID.String()))
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "Email and password are required"}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.unknownUserHash(), passwordBytes(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// unknownUserHash is compared against when the email has no account.
func (s *AuthService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
		if err != nil {
			s.log.Error("Failed to generate placeholder hash", logger.ErrorField(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// passwordBytes truncates to what bcrypt hashes so long passwords are accepted.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
