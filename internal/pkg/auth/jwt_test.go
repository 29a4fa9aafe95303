package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/emre/solidarity/internal/app/models"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "solidarity.app",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestService(time.Hour)
	assocID := int64(7)
	user := &models.User{
		ID:            42,
		Email:         "farah@example.org",
		Role:          models.RoleAssociation,
		AssociationID: &assocID,
	}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty token pair")
	}
	if access == refresh {
		t.Error("access and refresh tokens must differ")
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}
	if refreshExpiresIn != 86400 {
		t.Errorf("refreshExpiresIn = %d, want 86400", refreshExpiresIn)
	}

	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "farah@example.org" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != string(models.RoleAssociation) {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.AssociationID == nil || *claims.AssociationID != 7 {
		t.Errorf("AssociationID = %v, want 7", claims.AssociationID)
	}
	if claims.Issuer != "solidarity.app" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q", claims.Subject)
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		_, refresh, _, _, err := svc.GenerateTokenPair(user)
		if err != nil {
			t.Fatalf("GenerateTokenPair: %v", err)
		}
		if seen[refresh] {
			t.Fatalf("duplicate refresh token %q", refresh)
		}
		seen[refresh] = true
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser}

	access, _, _, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	_, err = svc.ValidateToken(access)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestService(time.Hour)
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser}

	access, _, _, _, err := issuer.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	verifier := NewJWTService(JWTConfig{
		SecretKey:       "a-different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "solidarity.app",
	})
	if _, err := verifier.ValidateToken(access); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestService(time.Hour)
	if _, err := svc.ValidateToken("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := newTestService(time.Hour)

	if _, err := svc.ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: err = %v, want ErrInvalidToken", err)
	}

	user := &models.User{ID: 9, Email: "x@y.z", Role: models.RoleAdmin}
	access, _, _, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	claims, err := svc.ValidateAndExtractClaims(access)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID != 9 {
		t.Errorf("UserID = %d, want 9", claims.UserID)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"empty header", "", "", true},
		{"bearer prefix", "Bearer abc123", "abc123", false},
		{"raw token", "abc123", "abc123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetRefreshTokenExpiry(t *testing.T) {
	svc := newTestService(time.Hour)
	expiry := svc.GetRefreshTokenExpiry()
	min := time.Now().Add(23 * time.Hour)
	max := time.Now().Add(25 * time.Hour)
	if expiry.Before(min) || expiry.After(max) {
		t.Errorf("expiry %v outside expected window", expiry)
	}
}
