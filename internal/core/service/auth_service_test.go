package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice", "pass1234", "alice@example.com", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an assigned user id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("empty role must default to user, got %q", user.Role)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "pass", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass1234", "bob@example.com", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown role must be rejected, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pass1234", "alice@example.com", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "pass1234", "other@example.com", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "pass1234", "alice@example.com", domain.RoleModerator)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(ctx, "alice", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("login returned wrong user: %s", user.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["user_id"] != registered.ID {
		t.Errorf("token user_id claim wrong: %v", claims["user_id"])
	}
	if claims["role"] != string(domain.RoleModerator) {
		t.Errorf("token role claim wrong: %v", claims["role"])
	}
	if claims["is_blocked"] != false {
		t.Errorf("token is_blocked claim wrong: %v", claims["is_blocked"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pass1234", "alice@example.com", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass1234"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_BlockUser_Toggle(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("mod", domain.RoleModerator, false)
	target := repo.seed("bob", domain.RoleUser, false)
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()
	mod := access.Actor{ID: "mod", Role: domain.RoleModerator}

	blocked, err := svc.BlockOrUnblockUser(ctx, mod, target.ID)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if !blocked {
		t.Error("first toggle must block")
	}
	if !repo.users[target.ID].IsBlocked {
		t.Error("blocked flag not persisted")
	}
	// Blocking never touches the role.
	if repo.users[target.ID].Role != domain.RoleUser {
		t.Errorf("role must be untouched, got %q", repo.users[target.ID].Role)
	}

	blocked, err = svc.BlockOrUnblockUser(ctx, mod, target.ID)
	if err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	if blocked {
		t.Error("second toggle must unblock")
	}
}

func TestAuthService_BlockUser_NonStaffDenied(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("alice", domain.RoleUser, false)
	repo.seed("bob", domain.RoleUser, false)
	svc := NewAuthService(repo, "secret", time.Hour)

	_, err := svc.BlockOrUnblockUser(context.Background(), access.Actor{ID: "alice", Role: domain.RoleUser}, "bob")

	var denied *access.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected denial, got %v", err)
	}
	if denied.Reason != access.ReasonInsufficientRole {
		t.Errorf("expected reason %q, got %q", access.ReasonInsufficientRole, denied.Reason)
	}
}

func TestAuthService_BlockUser_BlockedStaffDenied(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("mod", domain.RoleModerator, true)
	repo.seed("bob", domain.RoleUser, false)
	svc := NewAuthService(repo, "secret", time.Hour)

	_, err := svc.BlockOrUnblockUser(context.Background(), access.Actor{ID: "mod", Role: domain.RoleModerator, Blocked: true}, "bob")

	var denied *access.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected denial, got %v", err)
	}
	if denied.Reason != access.ReasonActorBlocked {
		t.Errorf("expected reason %q, got %q", access.ReasonActorBlocked, denied.Reason)
	}
}

func TestAuthService_ListUsers_StaffOnly(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("mod", domain.RoleModerator, false)
	repo.seed("bob", domain.RoleUser, false)
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, access.Actor{ID: "mod", Role: domain.RoleModerator})
	if err != nil {
		t.Fatalf("staff list failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	if _, err := svc.ListUsers(ctx, access.Actor{ID: "bob", Role: domain.RoleUser}); err == nil {
		t.Error("non-staff list must be denied")
	}
}
