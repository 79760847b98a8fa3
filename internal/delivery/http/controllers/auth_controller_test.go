package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gigcity/internal/delivery/http/helpers"
	"gigcity/internal/domain"
)

type stubUserService struct {
	result *domain.AuthResult
	user   *domain.User
	err    error
}

func (s *stubUserService) SignUp(ctx context.Context, name, email, password, role string) (*domain.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubUserService) GoogleLogin(ctx context.Context, idToken, role string) (*domain.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID, name, picture string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newAuthController(svc domain.UserService) *AuthController {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthController(logger, svc)
}

func TestAuthController_SignUp_Success(t *testing.T) {
	svc := &stubUserService{result: &domain.AuthResult{
		Token: "signed-token",
		User:  &domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.RoleFan},
	}}
	ctrl := newAuthController(svc)

	body := `{"name":"Ada","email":"ada@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	ctrl.SignUp(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestAuthController_SignUp_Validation(t *testing.T) {
	ctrl := newAuthController(&stubUserService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.c","password":"longenough"}`},
		{"bad email", `{"name":"Ada","email":"nope","password":"longenough"}`},
		{"short password", `{"name":"Ada","email":"a@b.c","password":"short"}`},
		{"bad role", `{"name":"Ada","email":"a@b.c","password":"longenough","role":"admin"}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			ctrl.SignUp(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestAuthController_SignUp_DuplicateEmail(t *testing.T) {
	ctrl := newAuthController(&stubUserService{err: domain.ErrDuplicateEmail})

	body := `{"name":"Ada","email":"ada@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	ctrl.SignUp(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
		t.Fatalf("expected error code %q, got %v", helpers.ErrCodeConflict, resp.Error)
	}
}

func TestAuthController_Login_Success(t *testing.T) {
	svc := &stubUserService{result: &domain.AuthResult{
		Token: "signed-token",
		User:  &domain.User{ID: "user-1", Email: "ada@example.com"},
	}}
	ctrl := newAuthController(svc)

	body := `{"email":"ada@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthController_Login_BadCredentials(t *testing.T) {
	ctrl := newAuthController(&stubUserService{err: domain.ErrBadCredentials})

	body := `{"email":"ada@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthController_Me_Unauthorized(t *testing.T) {
	ctrl := newAuthController(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	ctrl.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthController_Me_Success(t *testing.T) {
	svc := &stubUserService{user: &domain.User{ID: "user-1", Email: "ada@example.com"}}
	ctrl := newAuthController(svc)

	req := authedRequest(http.MethodGet, "/auth/me", "")
	w := httptest.NewRecorder()
	ctrl.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthController_UpdateMe_Success(t *testing.T) {
	svc := &stubUserService{user: &domain.User{ID: "user-1", Name: "Ada L."}}
	ctrl := newAuthController(svc)

	req := authedRequest(http.MethodPut, "/auth/me", `{"name":"Ada L."}`)
	w := httptest.NewRecorder()
	ctrl.UpdateMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
