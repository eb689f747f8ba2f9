package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIssueAndParseToken(t *testing.T) {
	cfg := JWTConfig{Issuer: "carevault", SigningKey: []byte("test-secret")}

	token, err := IssueToken(cfg, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("expected email a@b.com, got %s", claims.Email)
	}
	if claims.Issuer != "carevault" {
		t.Errorf("expected issuer carevault, got %s", claims.Issuer)
	}
}

func TestParseToken_WrongKey(t *testing.T) {
	cfg := JWTConfig{Issuer: "carevault", SigningKey: []byte("key-a")}
	token, err := IssueToken(cfg, "user-1", "")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	other := JWTConfig{Issuer: "carevault", SigningKey: []byte("key-b")}
	if _, err := ParseToken(other, token); err == nil {
		t.Error("expected error for token signed with different key")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	cfg := JWTConfig{Issuer: "someone-else", SigningKey: []byte("test-secret")}
	token, _ := IssueToken(cfg, "user-1", "")

	verify := JWTConfig{Issuer: "carevault", SigningKey: []byte("test-secret")}
	if _, err := ParseToken(verify, token); err == nil {
		t.Error("expected error for wrong issuer")
	}
}

func TestParseToken_Expired(t *testing.T) {
	cfg := JWTConfig{Issuer: "carevault", SigningKey: []byte("test-secret"), TokenTTL: -time.Minute}
	token, _ := IssueToken(cfg, "user-1", "")

	if _, err := ParseToken(cfg, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	cfg := JWTConfig{Issuer: "carevault", SigningKey: []byte("test-secret")}
	token, _ := IssueToken(cfg, "user-1", "a@b.com")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		uid := UserIDFromContext(c.Request().Context())
		if uid != "user-1" {
			t.Errorf("expected user-1 on context, got %q", uid)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := JWTMiddleware(cfg)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	cfg := JWTConfig{SigningKey: []byte("test-secret")}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(cfg)
	err := mw(func(c echo.Context) error { return nil })(c)
	if err == nil {
		t.Fatal("expected error for missing header")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	cfg := JWTConfig{SigningKey: []byte("test-secret")}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(cfg)
	err := mw(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestDevAuthMiddleware_DefaultIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		uid := UserIDFromContext(c.Request().Context())
		if uid != DevUserID {
			t.Errorf("expected dev identity, got %q", uid)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := DevAuthMiddleware(JWTConfig{})
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDevAuthMiddleware_BearerTokenIdentity(t *testing.T) {
	cfg := JWTConfig{}
	token, err := IssueToken(cfg, "11111111-2222-3333-4444-555555555555", "real@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		uid := UserIDFromContext(c.Request().Context())
		if uid != "11111111-2222-3333-4444-555555555555" {
			t.Errorf("expected token identity, got %q", uid)
		}
		if email := EmailFromContext(c.Request().Context()); email != "real@example.com" {
			t.Errorf("expected token email, got %q", email)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := DevAuthMiddleware(cfg)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDevAuthMiddleware_InvalidTokenFallsBack(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if uid := UserIDFromContext(c.Request().Context()); uid != DevUserID {
			t.Errorf("expected dev identity fallback, got %q", uid)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := DevAuthMiddleware(JWTConfig{})
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "s3cret-password" {
		t.Error("expected hash to differ from plaintext")
	}

	if err := CheckPassword(hash, "s3cret-password"); err != nil {
		t.Errorf("expected password to match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong-password"); err == nil {
		t.Error("expected mismatch error for wrong password")
	}
}
