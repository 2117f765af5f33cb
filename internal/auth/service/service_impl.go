package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/edupay/feereport/internal/auth/domain"
	"github.com/edupay/feereport/internal/auth/password"
	"github.com/edupay/feereport/internal/config"
	"github.com/edupay/feereport/internal/guard"
	"github.com/edupay/feereport/internal/policy"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Repo  domain.Repository
	GenID *snowflake.Node
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	genID     *snowflake.Node
	jwtSecret []byte
	tokenTTL  time.Duration
}

func New(p Params) domain.Service {
	ttl := p.Cfg.AuthTokenTTL
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Service{
		log:       p.Log.Named("auth.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		jwtSecret: []byte(p.Cfg.AuthJWTSecret),
		tokenTTL:  ttl,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}
	role := strings.TrimSpace(req.Role)
	if !policy.IsValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// Policy resolution happens exactly once, here. The grants travel with
	// the account and into every token it logs in with.
	grants := policy.ForRole(role)

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		Permissions:  datatypes.NewJSONSlice(grants.Permissions),
		FieldMasks:   datatypes.NewJSONSlice(grants.FieldMasks),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

type tokenClaims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	FieldMasks  []string `json:"fieldMasks"`
	jwt.RegisteredClaims
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := tokenClaims{
		Username:    user.Username,
		Role:        user.Role,
		Permissions: user.Permissions,
		FieldMasks:  user.FieldMasks,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (guard.Claims, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return guard.Claims{}, domain.ErrInvalidToken
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return guard.Claims{}, domain.ErrInvalidToken
	}

	return guard.Claims{
		UserID:      claims.Subject,
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		FieldMasks:  claims.FieldMasks,
	}, nil
}
