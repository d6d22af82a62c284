package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/appointment-hub/internal/application"
)

type sessionValidatorStub struct {
	principals map[string]application.Principal
	errs       map[string]error
}

func (s *sessionValidatorStub) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	if err, ok := s.errs[token]; ok {
		return application.Principal{}, err
	}
	principal, ok := s.principals[token]
	if !ok {
		return application.Principal{}, application.ErrUnauthorized
	}
	return principal, nil
}

func okHandler(captured *application.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := PrincipalFromContext(r.Context()); ok && captured != nil {
			*captured = principal
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestRequireSession(t *testing.T) {
	validator := &sessionValidatorStub{
		principals: map[string]application.Principal{
			"good-token": {UserID: "user-1", Email: "dana@example.com"},
		},
		errs: map[string]error{
			"expired-token": application.ErrSessionExpired,
			"revoked-token": application.ErrSessionRevoked,
		},
	}
	middleware := RequireSession(validator, nil)

	t.Run("passes the principal through on success", func(t *testing.T) {
		var captured application.Principal
		handler := middleware(okHandler(&captured))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if captured.UserID != "user-1" {
			t.Fatalf("principal not attached: %+v", captured)
		}
	})

	t.Run("accepts the session cookie", func(t *testing.T) {
		var captured application.Principal
		handler := middleware(okHandler(&captured))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "good-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired session carries its own error code", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ErrorCode != "AUTH_SESSION_EXPIRED" {
			t.Fatalf("unexpected error code: %q", body.ErrorCode)
		}
	})

	t.Run("revoked session carries its own error code", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer revoked-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ErrorCode != "AUTH_SESSION_REVOKED" {
			t.Fatalf("unexpected error code: %q", body.ErrorCode)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	middleware := RequireAdmin(nil)

	t.Run("admin passes", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		ctx := ContextWithPrincipal(req.Context(), application.Principal{UserID: "admin-1", IsAdmin: true})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("regular user is refused", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		ctx := ContextWithPrincipal(req.Context(), application.Principal{UserID: "user-1"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.ErrorCode != "AUTH_FORBIDDEN" {
			t.Fatalf("unexpected error code: %q", body.ErrorCode)
		}
	})

	t.Run("missing principal is refused", func(t *testing.T) {
		handler := middleware(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	middleware := RequestLogger(nil)
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Error("expected a request scoped logger on the context")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected the wrapped handler's status, got %d", rec.Code)
	}
}
