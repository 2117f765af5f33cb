package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/edupay/feereport/internal/auth/domain"
	"github.com/edupay/feereport/internal/auth/repository"
	"github.com/edupay/feereport/internal/config"
	"github.com/edupay/feereport/internal/policy"
	"github.com/edupay/feereport/pkg/db"
	"go.uber.org/zap"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		Cfg: config.Config{
			AuthJWTSecret: "test-secret",
			AuthTokenTTL:  time.Hour,
		},
		Log:   zap.NewNop(),
		Repo:  repository.New(conn),
		GenID: node,
	})
	return svc.(*Service)
}

func TestCreateUserResolvesPolicy(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "analyst",
		Password: "correct-horse",
		Role:     policy.RoleFinanceAnalyst,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if !containsString(user.Permissions, policy.PermReportsRead) {
		t.Fatalf("expected reports:read in permissions, got %v", user.Permissions)
	}
	if containsString(user.Permissions, policy.PermReportsMonitoring) {
		t.Fatalf("analyst must not hold monitoring, got %v", user.Permissions)
	}
	if !containsString(user.FieldMasks, "student.guardianEmail") {
		t.Fatalf("expected guardianEmail mask, got %v", user.FieldMasks)
	}

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "analyst",
		Password: "correct-horse",
		Role:     policy.RoleFinanceAnalyst,
	}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "intern",
		Password: "correct-horse",
		Role:     "INTERN",
	}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "shorty",
		Password: "short",
		Role:     policy.RoleDeveloper,
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestLoginAuthenticateRoundTrip(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "admin",
		Password: "super-secret-1",
		Role:     policy.RoleSuperAdmin,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := svc.Login(ctx, domain.LoginRequest{Username: "admin", Password: "super-secret-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatalf("expected a signed token")
	}
	if result.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", result.ExpiresIn)
	}

	claims, err := svc.Authenticate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.UserID)
	}
	if claims.Username != "admin" || claims.Role != policy.RoleSuperAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !containsString(claims.Permissions, policy.PermReportsMonitoring) {
		t.Fatalf("expected monitoring permission in claims, got %v", claims.Permissions)
	}
	if len(claims.FieldMasks) != 0 {
		t.Fatalf("super admin carries no masks, got %v", claims.FieldMasks)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "admin",
		Password: "super-secret-1",
		Role:     policy.RoleSuperAdmin,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Username: "admin", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Username: "ghost", Password: "whatever"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "admin",
		Password: "super-secret-1",
		Role:     policy.RoleSuperAdmin,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc.tokenTTL = -time.Minute
	result, err := svc.Login(ctx, domain.LoginRequest{Username: "admin", Password: "super-secret-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Authenticate(ctx, result.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
