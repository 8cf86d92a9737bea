package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	acceptErr    error
	loginErr     error
	resolveErr   error
	lastToken    string
	lastEmail    string
	lastPassword string
}

func (f *fakeAuthService) AcceptInvitation(ctx context.Context, token, email, password, firstName, lastName string) (string, *domain.Identity, error) {
	f.lastToken = token
	f.lastEmail = email
	f.lastPassword = password
	if f.acceptErr != nil {
		return "", nil, f.acceptErr
	}
	return "jwt-abc", &domain.Identity{
		User:  &domain.User{ID: "user-1", Email: "jean@example.com"},
		Roles: []string{domain.RoleParticipant},
	}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "jwt-abc", &domain.Identity{
		User:    &domain.User{ID: "user-1", Email: email},
		Roles:   []string{domain.RoleAdmin},
		IsAdmin: true,
	}, nil
}

func (f *fakeAuthService) Resolve(ctx context.Context, userID string) (*domain.Identity, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &domain.Identity{
		User:  &domain.User{ID: userID, Email: "jean@example.com"},
		Roles: []string{domain.RoleParticipant},
	}, nil
}

func TestAuthController_AcceptInvitation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		wantEmail      string
	}{
		{
			name:       "success",
			body:       `{"token":"tok-1","password":"correcthorse","first_name":"Jean","last_name":"Dupont"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "bad_request",
		},
		{
			name:           "short password",
			body:           `{"token":"tok-1","password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "missing token",
			body:           `{"password":"correcthorse"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "token is required",
		},
		{
			name:       "email forwarded for open invitations",
			body:       `{"token":"tok-1","email":"nouveau@example.com","password":"correcthorse"}`,
			wantStatus: http.StatusCreated,
			wantEmail:  "nouveau@example.com",
		},
		{
			name:           "malformed email",
			body:           `{"token":"tok-1","email":"pas-un-email","password":"correcthorse"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "token already used",
			body:           `{"token":"tok-1","password":"correcthorse"}`,
			fakeErr:        domain.ErrInvitationUsed,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "conflict",
		},
		{
			name:           "token expired",
			body:           `{"token":"tok-1","password":"correcthorse"}`,
			fakeErr:        domain.ErrInvitationExpired,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "conflict",
		},
		{
			name:           "unknown token",
			body:           `{"token":"tok-x","password":"correcthorse"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{acceptErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger(), fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/accept-invitation", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.AcceptInvitation(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			if tt.wantStatus == http.StatusCreated {
				var out struct {
					Data SessionResponse `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
				assert.Equal(t, "jwt-abc", out.Data.Token)
				assert.Equal(t, "Bearer", out.Data.TokenType)
				require.NotNil(t, out.Data.Identity)
				assert.Equal(t, "user-1", out.Data.Identity.User.ID)
				assert.Equal(t, tt.wantEmail, fake.lastEmail)
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"jean@example.com","password":"correcthorse"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "missing email",
			body:           `{"password":"correcthorse"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "bad credentials",
			body:           `{"email":"jean@example.com","password":"wrong"}`,
			fakeErr:        domain.ErrUserNotFound,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{loginErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger(), fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
		})
	}
}

func TestAuthController_Me(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rr := httptest.NewRecorder()

		ctrl.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "user-1")
	})

	t.Run("no identity in context", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rr := httptest.NewRecorder()

		ctrl.Me(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
