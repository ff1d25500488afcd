package service

import (
	"testing"
	"time"

	"leadpilot_backend/internal/auth/repository"
	"leadpilot_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func TestSignJWTClaims(t *testing.T) {
	companyID := uuid.New()
	slug := "apex-plumbing"
	user := &repository.User{
		ID:          uuid.New(),
		Email:       "owner@apex.example",
		Role:        "contractor",
		CompanyID:   &companyID,
		CompanySlug: &slug,
	}

	svc := New(nil, testConfig{}, logger.New("test"))
	signed, err := svc.signJWT(user)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse signed token: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["type"] != "access" {
		t.Fatalf("type = %v, want access", claims["type"])
	}
	if claims["company_id"] != companyID.String() {
		t.Fatalf("company_id = %v, want %s", claims["company_id"], companyID)
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "contractor" {
		t.Fatalf("roles = %v, want [contractor]", claims["roles"])
	}
}

func TestSignJWTOmitsCompanyForAdmins(t *testing.T) {
	user := &repository.User{
		ID:    uuid.New(),
		Email: "ops@leadpilot.example",
		Role:  "admin",
	}

	svc := New(nil, testConfig{}, logger.New("test"))
	signed, err := svc.signJWT(user)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse signed token: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if _, present := claims["company_id"]; present {
		t.Fatal("admin token should not carry company_id")
	}
}
