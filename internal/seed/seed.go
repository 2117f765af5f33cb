package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/edupay/feereport/internal/auth/domain"
	"github.com/edupay/feereport/internal/auth/password"
	"github.com/edupay/feereport/internal/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin-change-me"
)

// EnsureDefaultAdmin seeds a SUPER_ADMIN account so a fresh deployment is
// usable without a manual insert. Existing accounts are left untouched.
func EnsureDefaultAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).
			Where("username = ?", defaultAdminUsername).
			First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		grants := policy.ForRole(policy.RoleSuperAdmin)
		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			Username:     strings.ToLower(defaultAdminUsername),
			PasswordHash: hashed,
			Role:         policy.RoleSuperAdmin,
			Permissions:  datatypes.NewJSONSlice(grants.Permissions),
			FieldMasks:   datatypes.NewJSONSlice(grants.FieldMasks),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
