package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

type resolverFunc func(ctx context.Context, token string) (*domain.Identity, error)

func (f resolverFunc) Execute(ctx context.Context, token string) (*domain.Identity, error) {
	return f(ctx, token)
}

var (
	adminID  = &domain.Identity{AccountID: domain.NewAccountID(uuid.New()), Username: "root", Role: domain.RoleAdmin}
	memberID = &domain.Identity{AccountID: domain.NewAccountID(uuid.New()), Username: "m", Role: domain.RoleMember}
)

func testResolver() IdentityResolver {
	return resolverFunc(func(ctx context.Context, token string) (*domain.Identity, error) {
		switch token {
		case "admin":
			return adminID, nil
		case "member":
			return memberID, nil
		case "gone":
			return nil, domerrors.ErrAccountGone
		case "down":
			return nil, domerrors.ErrStoreUnavailable
		}
		return nil, domerrors.ErrInvalidToken
	})
}

func gated(chain ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		_, _ = w.Write([]byte(id.Username))
	})
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

func TestAccessGate(t *testing.T) {
	auth := Authenticate(testResolver())
	admin := RequireRole(domain.RoleAdmin)

	tests := []struct {
		name     string
		handler  http.Handler
		header   string
		wantCode int
		wantErr  string
		wantBody string
	}{
		{"missing header", gated(auth), "", http.StatusUnauthorized, "missing_token", ""},
		{"lowercase prefix", gated(auth), "bearer member", http.StatusUnauthorized, "missing_token", ""},
		{"invalid token", gated(auth), "Bearer nope", http.StatusUnauthorized, "invalid_or_expired", ""},
		{"account gone", gated(auth), "Bearer gone", http.StatusUnauthorized, "account_gone", ""},
		{"store down", gated(auth), "Bearer down", http.StatusInternalServerError, "store_unavailable", ""},
		{"member passes auth", gated(auth), "Bearer member", http.StatusOK, "", "m"},
		{"member blocked by role", gated(auth, admin), "Bearer member", http.StatusForbidden, "forbidden", ""},
		{"admin passes role", gated(auth, admin), "Bearer admin", http.StatusOK, "", "root"},
		{"role without auth", gated(admin), "Bearer admin", http.StatusUnauthorized, "unauthenticated", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErr, body["code"])
				return
			}
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestAccountRateLimiter(t *testing.T) {
	limit, err := NewAccountRateLimiter("2-M")
	require.NoError(t, err)
	h := gated(Authenticate(testResolver()), limit)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer member")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterRejectsBadRate(t *testing.T) {
	_, err := NewIPRateLimiter("lots")
	assert.Error(t, err)
	disabled, err := NewIPRateLimiter("")
	require.NoError(t, err)
	assert.NotNil(t, disabled)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"}, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/projects/user", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/projects/user", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
