package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrBadCredentials = errors.New("invalid email or password")
)

// Application roles.
const (
	RoleFan       = "fan"
	RoleOrganizer = "organizer"
	RoleArtist    = "artist"
)

// ValidRole reports whether role is one of the recognized application roles.
func ValidRole(role string) bool {
	switch role {
	case RoleFan, RoleOrganizer, RoleArtist:
		return true
	}
	return false
}

// User represents a registered account. Password-based accounts carry a salt
// and hash; federated accounts carry a GoogleSub instead. Both may be set for
// an account that linked Google later.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Picture      string    `json:"picture,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	GoogleSub    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// JoinedEvents lists the IDs of events the user holds tickets to. Only
	// populated on profile reads.
	JoinedEvents []string `json:"joined_events,omitempty"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenClaims is the authenticated identity carried by a verified token.
type TokenClaims struct {
	UserID string
	Name   string
	Role   string
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, name, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// FederatedIdentity is the profile asserted by an external identity provider.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// FederatedVerifier verifies an identity-provider token (e.g. a Google ID
// token) and returns the asserted identity.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*FederatedIdentity, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	// UpsertFederated inserts or updates the user identified by GoogleSub,
	// refreshing name and picture. Role is only set on first insert.
	UpsertFederated(ctx context.Context, user *User) error
	// AddJoinedEvent records that the user holds a ticket to the event.
	// Set semantics: repeat calls for the same pair are no-ops.
	AddJoinedEvent(ctx context.Context, userID, eventID string) error
	// AddAppliedEvent records an artist application reference. Set semantics.
	AddAppliedEvent(ctx context.Context, userID, eventID string) error
	ListJoinedEventIDs(ctx context.Context, userID string) ([]string, error)
}

// AuthResult bundles a signed token with the authenticated user.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserService defines the business logic for accounts and authentication.
type UserService interface {
	SignUp(ctx context.Context, name, email, password, role string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GoogleLogin(ctx context.Context, idToken, role string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, userID, name, picture string) (*User, error)
}
