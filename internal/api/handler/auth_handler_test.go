package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, secret string, meta domain.ClientMeta) (string, *domain.User, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, secret string, meta domain.ClientMeta) (string, *domain.User, error) {
	return s.authenticateFn(ctx, secret, meta)
}

type stubCredentialService struct {
	changeOwnFn func(ctx context.Context, userID, current, next string, meta domain.ClientMeta) error
}

func (s *stubCredentialService) SetPassword(context.Context, *domain.User, string, ports.SetPasswordInput, domain.ClientMeta) (*ports.SetPasswordResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCredentialService) ClearPassword(context.Context, *domain.User, string, domain.ClientMeta) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCredentialService) ChangeOwnPassword(ctx context.Context, userID, current, next string, meta domain.ClientMeta) error {
	return s.changeOwnFn(ctx, userID, current, next, meta)
}

func (s *stubCredentialService) RequestPasswordReset(context.Context, string, domain.ClientMeta) (string, error) {
	return "", domain.ErrUserNotFound
}

func (s *stubCredentialService) ResetPasswordWithToken(context.Context, string, string, string, domain.ClientMeta) error {
	return nil
}

type stubLimiter struct {
	allowed  bool
	allowErr error
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allowed, l.allowErr
}

func (l *stubLimiter) Reset(context.Context, string) error {
	l.resets++
	return nil
}

func newLoginContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	auth := &stubAuthService{
		authenticateFn: func(_ context.Context, secret string, _ domain.ClientMeta) (string, *domain.User, error) {
			if secret != "family2024" {
				t.Fatalf("unexpected secret: %s", secret)
			}
			return "token123", &domain.User{ID: "user-1", Role: domain.RoleUser, MustChangePassword: true}, nil
		},
	}
	limiter := &stubLimiter{allowed: true}
	h := NewAuthHandler(auth, &stubCredentialService{}, limiter, zerolog.Nop())

	c, rec := newLoginContext(e, `{"secret":"family2024"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if resp["must_change_password"] != true {
		t.Fatalf("expected must_change_password true, got %v", resp["must_change_password"])
	}
	if limiter.resets != 1 {
		t.Fatalf("expected the attempt counter to be reset once, got %d", limiter.resets)
	}
}

func TestAuthHandler_Login_RateLimited(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	auth := &stubAuthService{
		authenticateFn: func(context.Context, string, domain.ClientMeta) (string, *domain.User, error) {
			t.Fatalf("authenticate must not run when rate limited")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(auth, &stubCredentialService{}, &stubLimiter{allowed: false}, zerolog.Nop())

	c, _ := newLoginContext(e, `{"secret":"whatever"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestAuthHandler_Login_LimiterOutageFailsOpen(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	auth := &stubAuthService{
		authenticateFn: func(context.Context, string, domain.ClientMeta) (string, *domain.User, error) {
			return "token", &domain.User{ID: "user-1", Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(auth, &stubCredentialService{}, &stubLimiter{allowed: false, allowErr: errors.New("redis down")}, zerolog.Nop())

	c, rec := newLoginContext(e, `{"secret":"family2024"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login to proceed during a limiter outage, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	auth := &stubAuthService{
		authenticateFn: func(context.Context, string, domain.ClientMeta) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, &stubCredentialService{}, &stubLimiter{allowed: true}, zerolog.Nop())

	c, _ := newLoginContext(e, `{"secret":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAuthHandler(&stubAuthService{}, &stubCredentialService{}, &stubLimiter{allowed: true}, zerolog.Nop())

	for _, body := range []string{"not-json", `{"secret":""}`} {
		c, _ := newLoginContext(e, body)
		err := h.Login(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected a 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	creds := &stubCredentialService{
		changeOwnFn: func(_ context.Context, userID, current, next string, _ domain.ClientMeta) error {
			if userID != "user-1" || current != "Old&Secret#12345" || next != "New&Secret#12345" {
				t.Fatalf("unexpected args: %s %s %s", userID, current, next)
			}
			return nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, creds, &stubLimiter{allowed: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/me/password", strings.NewReader(`{"current_password":"Old&Secret#12345","new_password":"New&Secret#12345"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("role", "USER")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_MissingClaims(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAuthHandler(&stubAuthService{}, &stubCredentialService{}, &stubLimiter{allowed: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/me/password", strings.NewReader(`{"new_password":"New&Secret#12345"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth claims, got %v", err)
	}
}

func TestAuthHandler_RequestPasswordReset_DoesNotLeakAccountExistence(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	// The stub's RequestPasswordReset always reports user-not-found.
	h := NewAuthHandler(&stubAuthService{}, &stubCredentialService{}, &stubLimiter{allowed: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/auth/password-reset", strings.NewReader(`{"email":"ghost@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RequestPasswordReset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an unknown email, got %d", rec.Code)
	}
}
