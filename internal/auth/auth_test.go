package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// TestAccessTokenRoundTrip проверяет выпуск и разбор токена.
func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "advisor-planner", time.Minute)
	advisorID := uuid.New()

	token, err := manager.NewAccessToken(advisorID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := manager.ParseAccessToken(token.Token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if got != advisorID {
		t.Fatalf("expected advisor %s, got %s", advisorID, got)
	}
}

// TestAccessTokenRejectsForeignIssuer проверяет проверку издателя и подписи.
func TestAccessTokenRejectsForeignIssuer(t *testing.T) {
	issuer := NewTokenManager("secret", "other", time.Minute)
	token, err := issuer.NewAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := NewTokenManager("secret", "advisor-planner", time.Minute).ParseAccessToken(token.Token); err == nil {
		t.Fatal("expected error for foreign issuer")
	}
	if _, err := NewTokenManager("another-secret", "other", time.Minute).ParseAccessToken(token.Token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

// TestAccessTokenExpired проверяет истекший токен.
func TestAccessTokenExpired(t *testing.T) {
	manager := NewTokenManager("secret", "advisor-planner", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.NewAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := NewTokenManager("secret", "advisor-planner", time.Minute).ParseAccessToken(token.Token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

// TestJWTMiddleware проверяет сохранение консультанта в контексте.
func TestJWTMiddleware(t *testing.T) {
	manager := NewTokenManager("secret", "advisor-planner", time.Minute)
	advisorID := uuid.New()
	token, _ := manager.NewAccessToken(advisorID)

	e := echo.New()
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		got, ok := AdvisorIDFromContext(c)
		if !ok || got != advisorID {
			t.Fatalf("expected advisor %s in context, got %s (ok=%v)", advisorID, got, ok)
		}
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

// TestComparePassword проверяет сверку bcrypt-хэша.
func TestComparePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ComparePassword(string(hash), "correct horse"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := ComparePassword(string(hash), "battery staple"); err == nil {
		t.Fatal("expected mismatch")
	}
}
