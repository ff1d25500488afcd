// Package service implements credential checks and access token issuance.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadpilot_backend/internal/auth/password"
	"leadpilot_backend/internal/auth/repository"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const accessTokenType = "access"

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Profile is the authenticated view of a user account.
type Profile struct {
	ID          uuid.UUID
	Email       string
	Name        string
	Role        string
	CompanyID   *uuid.UUID
	CompanySlug *string
	CreatedAt   time.Time
}

// SignIn verifies credentials and issues a signed access token. Lookup
// failures and bad passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, *Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.DatabaseError("auth.sign_in", err)
		}
		return "", nil, ErrInvalidCredentials
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "bad password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signJWT(user)
	if err != nil {
		return "", nil, err
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return token, profileOf(user), nil
}

// Me returns the profile for an authenticated user id.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		s.log.DatabaseError("auth.me", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load profile", err)
	}
	return profileOf(user), nil
}

// ChangePassword rotates a user's credential after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		s.log.DatabaseError("auth.change_password", err)
		return apperr.Wrap(apperr.KindInternal, "could not change password", err)
	}

	if err := password.Compare(user.PasswordHash, current); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "could not change password", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		s.log.DatabaseError("auth.change_password", err)
		return apperr.Wrap(apperr.KindInternal, "could not change password", err)
	}
	return nil
}

func (s *Service) signJWT(user *repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  accessTokenType,
		"roles": []string{user.Role},
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}
	if user.CompanyID != nil {
		claims["company_id"] = user.CompanyID.String()
	}
	if user.CompanySlug != nil {
		claims["company_slug"] = *user.CompanySlug
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func profileOf(user *repository.User) *Profile {
	return &Profile{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		CompanyID:   user.CompanyID,
		CompanySlug: user.CompanySlug,
		CreatedAt:   user.CreatedAt,
	}
}
