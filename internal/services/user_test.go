package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigcity/internal/domain"
)

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return domain.ErrBadCredentials
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, name, role string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

type fakeFederated struct {
	identity *domain.FederatedIdentity
	err      error
}

func (f *fakeFederated) Verify(ctx context.Context, idToken string) (*domain.FederatedIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type noopMailer struct{}

func (noopMailer) Send(to, subject, html, text string) error { return nil }

type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data any) (string, string, string, error) {
	return "subject", "<p>hi</p>", "hi", nil
}

func newUserFixture(users ...*domain.User) (domain.UserService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	svc := NewUserService(repo, fakeHasher{}, fakeIssuer{}, &fakeFederated{}, noopMailer{}, fakeRenderer{}, time.Hour, testLogger())
	return svc, repo
}

func TestUserService_SignUp(t *testing.T) {
	svc, _ := newUserFixture()

	result, err := svc.SignUp(context.Background(), "Ada", "ADA@Example.com ", "pw", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada@example.com", result.User.Email, "email is normalized")
	assert.Equal(t, domain.RoleFan, result.User.Role, "default role is fan")
	assert.Equal(t, "hash:salt:pw", result.User.PasswordHash)
}

func TestUserService_SignUp_validation(t *testing.T) {
	svc, _ := newUserFixture()

	tests := []struct {
		name, userName, email, password, role string
	}{
		{"empty name", "", "a@b.c", "pw", ""},
		{"empty email", "Ada", "", "pw", ""},
		{"empty password", "Ada", "a@b.c", "", ""},
		{"bad role", "Ada", "a@b.c", "pw", "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.userName, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUserService_SignUp_duplicate_email(t *testing.T) {
	svc, _ := newUserFixture(&domain.User{ID: "user-1", Email: "ada@example.com"})

	_, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "pw", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserFixture(&domain.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		Name:         "Ada",
		Role:         domain.RoleFan,
		PasswordHash: "hash:salt:pw",
		Salt:         "salt",
	})

	result, err := svc.Login(context.Background(), "Ada@Example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-user-1", result.Token)
}

func TestUserService_Login_bad_credentials(t *testing.T) {
	svc, _ := newUserFixture(&domain.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: "hash:salt:pw",
		Salt:         "salt",
	})

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	// Unknown accounts report the same error as a wrong password.
	_, err = svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestUserService_Login_federated_only_account(t *testing.T) {
	svc, _ := newUserFixture(&domain.User{
		ID:        "user-1",
		Email:     "ada@example.com",
		GoogleSub: "goog-123",
	})

	_, err := svc.Login(context.Background(), "ada@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestUserService_GoogleLogin(t *testing.T) {
	repo := newFakeUserRepo()
	federated := &fakeFederated{identity: &domain.FederatedIdentity{
		Subject: "goog-123",
		Email:   "Ada@Example.com",
		Name:    "Ada",
		Picture: "pic.png",
	}}
	svc := NewUserService(repo, fakeHasher{}, fakeIssuer{}, federated, noopMailer{}, fakeRenderer{}, time.Hour, testLogger())

	result, err := svc.GoogleLogin(context.Background(), "id-token", domain.RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, domain.RoleArtist, result.User.Role)
	assert.Equal(t, "goog-123", result.User.GoogleSub)

	// Second login keeps the original account and its role.
	result2, err := svc.GoogleLogin(context.Background(), "id-token", domain.RoleFan)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, result2.User.ID)
	assert.Equal(t, domain.RoleArtist, result2.User.Role)
}

func TestUserService_GoogleLogin_empty_token(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.GoogleLogin(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_GetByID_includes_joined_events(t *testing.T) {
	svc, repo := newUserFixture(&domain.User{ID: "user-1", Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, repo.AddJoinedEvent(context.Background(), "user-1", "ev-1"))
	require.NoError(t, repo.AddJoinedEvent(context.Background(), "user-1", "ev-2"))

	user, err := svc.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ev-1", "ev-2"}, user.JoinedEvents)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserFixture(&domain.User{ID: "user-1", Email: "ada@example.com", Name: "Ada"})

	updated, err := svc.UpdateProfile(context.Background(), "user-1", "Ada L.", "new.png")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "new.png", updated.Picture)

	// Blank fields leave the current values alone.
	updated, err = svc.UpdateProfile(context.Background(), "user-1", "  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "new.png", updated.Picture)
}

func TestUserService_UpdateProfile_unknown_user(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.UpdateProfile(context.Background(), "user-404", "Ada", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
