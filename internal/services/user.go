package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gigcity/internal/domain"
)

type userService struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	federated   domain.FederatedVerifier
	mailer      domain.Mailer
	renderer    domain.EmailTemplateRenderer
	tokenExpiry time.Duration
	logger      *slog.Logger
}

// NewUserService creates the account and authentication service.
func NewUserService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	federated domain.FederatedVerifier,
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	tokenExpiry time.Duration,
	logger *slog.Logger,
) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		hasher:      hasher,
		issuer:      issuer,
		federated:   federated,
		mailer:      mailer,
		renderer:    renderer,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

func (s *userService) SignUp(ctx context.Context, name, email, password, role string) (*domain.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if role == "" {
		role = domain.RoleFan
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(email, name, role, now, now)
	user.Salt = salt
	user.PasswordHash = hash
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendWelcome(user)
	return s.authResult(user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	// Federated-only accounts have no password credential.
	if user.PasswordHash == "" || user.Salt == "" {
		return nil, domain.ErrBadCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrBadCredentials
	}
	return s.authResult(user)
}

func (s *userService) GoogleLogin(ctx context.Context, idToken, role string) (*domain.AuthResult, error) {
	if idToken == "" {
		return nil, domain.ErrInvalidInput
	}
	if role == "" {
		role = domain.RoleFan
	}
	if !domain.ValidRole(role) {
		role = domain.RoleFan
	}

	identity, err := s.federated.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify federated token: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(strings.ToLower(identity.Email), identity.Name, role, now, now)
	user.GoogleSub = identity.Subject
	user.Picture = identity.Picture
	if err := s.userRepo.UpsertFederated(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert federated user: %w", err)
	}
	return s.authResult(user)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	joined, err := s.userRepo.ListJoinedEventIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	user.JoinedEvents = joined
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name, picture string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if picture != "" {
		user.Picture = picture
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// authResult signs a token for the user and strips nothing; credential fields
// are excluded from JSON at the type level.
func (s *userService) authResult(user *domain.User) (*domain.AuthResult, error) {
	token, err := s.issuer.Issue(user.ID, user.Name, user.Role, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

// sendWelcome is best effort; signup never fails on email problems.
func (s *userService) sendWelcome(user *domain.User) {
	go func() {
		subject, html, text, err := s.renderer.Render("welcome", map[string]string{"Name": user.Name})
		if err != nil {
			s.logger.Warn("welcome email render failed", "user_id", user.ID, "err", err)
			return
		}
		if err := s.mailer.Send(user.Email, subject, html, text); err != nil {
			s.logger.Warn("welcome email send failed", "user_id", user.ID, "err", err)
		}
	}()
}
