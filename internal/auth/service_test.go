package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Dileepkumar18311/ChatApp/internal/config"
	"github.com/Dileepkumar18311/ChatApp/internal/database/dbtest"
	"github.com/Dileepkumar18311/ChatApp/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *dbtest.Memory) {
	db := dbtest.NewMemory()
	return NewService(db, config.JWTConfig{Secret: []byte("test-secret"), ExpiresIn: time.Hour}), db
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       models.RegisterRequest
		wantValid bool
	}{
		{
			name:      "valid signup",
			req:       models.RegisterRequest{Username: "alice", Email: "alice@example.com", DisplayName: "Alice", Password: "secret1"},
			wantValid: true,
		},
		{
			name: "missing display name",
			req:  models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"},
		},
		{
			name: "username too short",
			req:  models.RegisterRequest{Username: "al", Email: "al@example.com", DisplayName: "Al", Password: "secret1"},
		},
		{
			name: "password too short",
			req:  models.RegisterRequest{Username: "carol", Email: "carol@example.com", DisplayName: "Carol", Password: "123"},
		},
		{
			name: "email too short",
			req:  models.RegisterRequest{Username: "dave", Email: "d@e", DisplayName: "Dave", Password: "secret1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			resp, err := svc.Register(ctx, &tt.req)

			if !tt.wantValid {
				var ve *models.ValidationError
				require.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.NotZero(t, resp.User.ID)
			assert.NotEqual(t, tt.req.Password, resp.User.PasswordHash, "password must be stored hashed")
		})
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	req := models.RegisterRequest{Username: "alice", Email: "alice@example.com", DisplayName: "Alice", Password: "secret1"}
	_, err := svc.Register(ctx, &req)
	require.NoError(t, err)

	dup := models.RegisterRequest{Username: "alice", Email: "other@example.com", DisplayName: "Other", Password: "secret1"}
	_, err = svc.Register(ctx, &dup)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	reg := models.RegisterRequest{Username: "alice", Email: "alice@example.com", DisplayName: "Alice", Password: "secret1"}
	_, err := svc.Register(ctx, &reg)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr error
	}{
		{name: "valid credentials", req: models.LoginRequest{Email: "alice@example.com", Password: "secret1"}},
		{name: "wrong password", req: models.LoginRequest{Email: "alice@example.com", Password: "wrong-pass"}, wantErr: ErrInvalidCredentials},
		{name: "unknown email", req: models.LoginRequest{Email: "nobody@example.com", Password: "secret1"}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", resp.User.Username)
		})
	}

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "not-an-email", Password: "secret1"})
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestService_GetUserFromToken(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService()
	user := db.AddUser("alice")

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	got, err := svc.GetUserFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestService_GetUserFromToken_Failures(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService()
	user := db.AddUser("alice")

	expiredSvc := NewService(db, config.JWTConfig{Secret: []byte("test-secret"), ExpiresIn: time.Hour})
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.GenerateToken(user)
	require.NoError(t, err)

	otherSecret := NewService(db, config.JWTConfig{Secret: []byte("other-secret"), ExpiresIn: time.Hour})
	forged, err := otherSecret.GenerateToken(user)
	require.NoError(t, err)

	ghost, err := svc.GenerateToken(&models.User{ID: 999, Username: "ghost"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.token", wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong secret", token: forged, wantErr: ErrInvalidToken},
		{name: "alg none", token: unsigned, wantErr: ErrInvalidToken},
		{name: "deleted user", token: ghost, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetUserFromToken(ctx, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"), "CheckPassword() rejected the right password")
	assert.False(t, CheckPassword(hash, "secret2"), "CheckPassword() accepted a wrong password")
}
