package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// AuthService implements registration, login, and user moderation.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, username, password, email string, role domain.Role) (*domain.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// BlockOrUnblockUser toggles the blocked flag on a user account and
// returns the new state. Staff only; the blocked flag leaves the role
// untouched.
func (s *AuthService) BlockOrUnblockUser(ctx context.Context, actor access.Actor, targetUserID string) (bool, error) {
	if err := access.Authorize(actor, access.ActionBlockUser, access.Target{}).Err(); err != nil {
		return false, err
	}

	target, err := s.repo.FindByID(ctx, targetUserID)
	if err != nil {
		return false, err
	}

	next := !target.IsBlocked
	if err := s.repo.SetBlocked(ctx, targetUserID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *AuthService) ListUsers(ctx context.Context, actor access.Actor) ([]*domain.User, error) {
	if err := access.Authorize(actor, access.ActionBlockUser, access.Target{}).Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, actor access.Actor, userID string) (*domain.User, error) {
	if err := access.Authorize(actor, access.ActionBlockUser, access.Target{}).Err(); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// generateToken mints the opaque credential: an HS256 JWT carrying the
// user id, role, and blocked flag.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"role":       string(user.Role),
		"is_blocked": user.IsBlocked,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

var _ ports.AuthService = (*AuthService)(nil)
