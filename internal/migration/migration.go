package migration

import (
	"errors"

	authdomain "github.com/edupay/feereport/internal/auth/domain"
	feebilldomain "github.com/edupay/feereport/internal/feebill/domain"
	studentdomain "github.com/edupay/feereport/internal/student/domain"
	txndomain "github.com/edupay/feereport/internal/transaction/domain"
	"gorm.io/gorm"
)

// RunMigrations creates the reporting schema. Writes to students, bills and
// transactions come from upstream collectors; this service only needs the
// tables to exist.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	return db.AutoMigrate(
		&studentdomain.Student{},
		&feebilldomain.FeeBill{},
		&txndomain.PaymentTransaction{},
		&authdomain.User{},
	)
}
